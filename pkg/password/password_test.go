package password

import (
	"errors"
	"strings"
	"testing"
)

// TestHashAndCompare はHashとCompareを検証する。
func TestHashAndCompare(t *testing.T) {
	t.Parallel()

	hashed, err := Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash()でエラーが発生: %v", err)
	}

	t.Run("ハッシュが平文と異なること", func(t *testing.T) {
		t.Parallel()

		if hashed == "correct-horse" {
			t.Error("ハッシュが平文のまま")
		}
		if !strings.HasPrefix(hashed, "$2a$12$") {
			t.Errorf("hash = %q, want コスト12のbcryptハッシュ", hashed)
		}
	})

	t.Run("正しいパスワードで照合に成功すること", func(t *testing.T) {
		t.Parallel()

		if err := Compare(hashed, "correct-horse"); err != nil {
			t.Errorf("Compare()でエラーが発生: %v", err)
		}
	})

	t.Run("誤ったパスワードでErrMismatchが返ること", func(t *testing.T) {
		t.Parallel()

		if err := Compare(hashed, "wrong-horse"); !errors.Is(err, ErrMismatch) {
			t.Errorf("err = %v, want %v", err, ErrMismatch)
		}
	})

	t.Run("ハッシュ形式が不正な場合はErrMismatch以外のエラーが返ること", func(t *testing.T) {
		t.Parallel()

		err := Compare("not-a-hash", "correct-horse")
		if err == nil || errors.Is(err, ErrMismatch) {
			t.Errorf("err = %v, want ErrMismatch以外のエラー", err)
		}
	})
}

// TestHash_TooLong は72バイトを超えるパスワードを拒否することを検証する。
func TestHash_TooLong(t *testing.T) {
	t.Parallel()

	if _, err := Hash(strings.Repeat("a", 73)); !errors.Is(err, ErrTooLong) {
		t.Errorf("err = %v, want %v", err, ErrTooLong)
	}
}
