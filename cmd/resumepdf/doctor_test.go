package main

// Notes:
// - Tests use a black-box approach through runDoctorCmd's output.
// - They set environment variables, so they cannot use t.Parallel().
// - Chrome detection depends on the host; only the shape of the result and
//   the status/exit code consistency are asserted for it.

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func runDoctorJSON(t *testing.T, args ...string) (*doctorResult, int) {
	t.Helper()
	te := newTestEnv(t)

	code := runDoctorCmd(append([]string{"--json", "--env-file", ""}, args...), te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\noutput was: %s", err, te.stdout)
	}
	return &result, code
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - Structure and status/exit consistency
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	cleanEnv(t)

	result, code := runDoctorJSON(t)

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("invalid status %q", result.Status)
	}
	if result.Status == "errors" && code != ExitGeneral {
		t.Errorf("exit code = %d for errors status, want %d", code, ExitGeneral)
	}
	if result.Status != "errors" && code != ExitSuccess {
		t.Errorf("exit code = %d for %s status, want %d", code, result.Status, ExitSuccess)
	}
	if !result.System.TempWritable {
		t.Error("temp directory should be writable in tests")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Stores - Credential checks without printing secrets
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_StoresMissing(t *testing.T) {
	cleanEnv(t)

	result, _ := runDoctorJSON(t)

	if !result.Stores.ConfigLoaded {
		t.Fatal("defaults should load without a config file")
	}
	if result.Stores.Notion || result.Stores.Artifact {
		t.Errorf("stores = %+v, want both unconfigured", result.Stores)
	}
	if result.Status == "ready" {
		t.Error("missing stores should at least warn")
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "notion.apiKey") {
		t.Errorf("warnings should name the missing field, got %q", joined)
	}
}

func TestRunDoctorCmd_StoresConfigured(t *testing.T) {
	cleanEnv(t)
	cfgPath, _ := writeLocalConfig(t)

	te := newTestEnv(t)
	runDoctorCmd([]string{"--json", "--env-file", "", "-c", cfgPath}, te.Environment)

	out := te.stdout.String()
	if strings.Contains(out, "secret") {
		t.Error("doctor output must not contain credentials")
	}
	var result doctorResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Stores.Notion || !result.Stores.Artifact {
		t.Errorf("stores = %+v, want both configured", result.Stores)
	}
	if result.Stores.ArtifactDriver != "local" {
		t.Errorf("driver = %q, want local", result.Stores.ArtifactDriver)
	}
}

func TestRunDoctorCmd_BadConfigIsError(t *testing.T) {
	cleanEnv(t)
	t.Setenv("RESUMEPDF_LOG_LEVEL", "loud")

	result, code := runDoctorJSON(t)

	if result.Status != "errors" || code != ExitGeneral {
		t.Errorf("status = %q, code = %d, want errors/%d", result.Status, code, ExitGeneral)
	}
	if result.Stores.ConfigLoaded {
		t.Error("invalid config should not count as loaded")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Container - Explicit container override
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ContainerOverride(t *testing.T) {
	cleanEnv(t)
	t.Setenv("RESUMEPDF_CONTAINER", "1")

	result, _ := runDoctorJSON(t)

	if !result.Env.Container {
		t.Error("RESUMEPDF_CONTAINER=1 should force container detection")
	}
	if result.Env.ContainerHint != "RESUMEPDF_CONTAINER=1" {
		t.Errorf("hint = %q, want RESUMEPDF_CONTAINER=1", result.Env.ContainerHint)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_TextOutput - Human-readable sections
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_TextOutput(t *testing.T) {
	cleanEnv(t)
	te := newTestEnv(t)

	runDoctorCmd([]string{"--env-file", ""}, te.Environment)

	out := te.stdout.String()
	for _, section := range []string{"resumepdf doctor", "Chrome/Chromium", "Environment", "System", "Stores", "Status:"} {
		if !strings.Contains(out, section) {
			t.Errorf("output should contain %q, got:\n%s", section, out)
		}
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	if code := runDoctorCmd([]string{"--bogus"}, te.Environment); code != ExitUsage {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitUsage)
	}
}
