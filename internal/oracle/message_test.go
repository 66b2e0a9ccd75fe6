package oracle

import "testing"

func TestMessageDeterministic(t *testing.T) {
	a := Message(1000, 42_000)
	b := Message(1000, 42_000)
	if a != b {
		t.Error("same inputs must produce the same digest")
	}
}

func TestMessageInputsBindDigest(t *testing.T) {
	base := Message(1000, 42_000)

	if Message(1001, 42_000) == base {
		t.Error("height must change the digest")
	}
	if Message(1000, 42_001) == base {
		t.Error("price must change the digest")
	}
}
