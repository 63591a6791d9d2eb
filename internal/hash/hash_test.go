package hash

import "testing"

func TestSHA256Hasher_Digest(t *testing.T) {
	hasher := NewSHA256Hasher()

	t.Run("same content produces same digest", func(t *testing.T) {
		d1 := hasher.Digest("identical content")
		d2 := hasher.Digest("identical content")
		if d1 != d2 {
			t.Errorf("Digest inconsistent: got %s and %s", d1, d2)
		}
	})

	t.Run("different content produces different digests", func(t *testing.T) {
		if hasher.Digest("content A") == hasher.Digest("content B") {
			t.Error("different contents produced the same digest")
		}
	})

	t.Run("empty content has the known SHA-256", func(t *testing.T) {
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got := hasher.Digest(""); got != want {
			t.Errorf("Digest(\"\") = %s, want %s", got, want)
		}
	})

	t.Run("known value", func(t *testing.T) {
		want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		if got := hasher.Digest("hello world"); got != want {
			t.Errorf("Digest(\"hello world\") = %s, want %s", got, want)
		}
	})

	t.Run("whitespace is significant", func(t *testing.T) {
		if Equal(hasher, "line\n", "line") {
			t.Error("trailing newline should change the digest")
		}
	})
}

func TestFakeHasher(t *testing.T) {
	hasher := NewFakeHasher()

	t.Run("unknown content hashes to itself", func(t *testing.T) {
		if got := hasher.Digest("abc"); got != "fake:abc" {
			t.Errorf("Digest = %q, want %q", got, "fake:abc")
		}
	})

	t.Run("configured digest forces equality", func(t *testing.T) {
		hasher.SetDigest("v1", "same")
		hasher.SetDigest("v2", "same")
		if !Equal(hasher, "v1", "v2") {
			t.Error("expected configured digests to compare equal")
		}
	})

	t.Run("counts calls", func(t *testing.T) {
		before := hasher.Calls
		hasher.Digest("x")
		if hasher.Calls != before+1 {
			t.Errorf("Calls = %d, want %d", hasher.Calls, before+1)
		}
	})
}
