package source

import "testing"

func TestParseGPULine(t *testing.T) {
	name, util, ok := parseGPULine("NVIDIA GeForce RTX 3080, 17\n")
	if !ok {
		t.Fatal("parseGPULine rejected valid output")
	}
	if name != "NVIDIA GeForce RTX 3080" {
		t.Errorf("name = %q", name)
	}
	if util != 17 {
		t.Errorf("util = %f, want 17", util)
	}
}

func TestParseGPULineTakesFirstDevice(t *testing.T) {
	out := "NVIDIA A100, 93\nNVIDIA A100, 12\n"
	name, util, ok := parseGPULine(out)
	if !ok || name != "NVIDIA A100" || util != 93 {
		t.Errorf("got (%q, %f, %v), want first device at 93", name, util, ok)
	}
}

func TestParseGPULineGarbage(t *testing.T) {
	for _, in := range []string{"", "\n", "no commas here", "name, notanumber"} {
		if _, _, ok := parseGPULine(in); ok {
			t.Errorf("parseGPULine(%q) = ok, want rejection", in)
		}
	}
}
