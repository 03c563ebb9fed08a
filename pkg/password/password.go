// Package password はパスワードの一方向ハッシュ化と照合を提供する。
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost はbcryptのコスト。
const Cost = 12

// ErrMismatch はパスワードがハッシュと一致しない場合のエラー。
var ErrMismatch = errors.New("パスワードが一致しません")

// ErrTooLong はbcryptで扱えない長さのパスワードが渡された場合のエラー。
var ErrTooLong = errors.New("パスワードが長すぎます")

// Hash はパスワードをbcryptでハッシュ化する。
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrTooLong
		}
		return "", fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	return string(hashed), nil
}

// Compare はパスワードがハッシュと一致するかを検証する。
// 一致しない場合はErrMismatchを返す。
func Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("パスワードの照合に失敗: %w", err)
	}
	return nil
}
