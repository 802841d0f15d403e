// Package notion is the record store client, built on the go-notion SDK.
//
// A resume lives in a database page whose rich text property holds the
// markdown body, split into segments of at most MaxChunkLength UTF-16 code
// units. Client implements resumepdf.RecordStore.
package notion
