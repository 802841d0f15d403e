// Package process terminates browser process trees left behind by the rasterizer.
package process
