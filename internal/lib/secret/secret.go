// Package secret реализует выпуск и проверку ключей гостевых сессий.
//
// NewKey генерирует случайный ключ, который отдаётся клиенту один раз.
// Hash создаёт bcrypt-хеш ключа для хранения рядом с сессией.
// Compare сравнивает хранимый хеш с предъявленным ключом.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// keyBytes — длина ключа в байтах до кодирования.
const keyBytes = 32

// Ключ содержит 256 бит энтропии, поэтому стоимость bcrypt минимальная.
const keyCost = bcrypt.MinCost

// NewKey возвращает новый случайный ключ в base64url без паддинга.
func NewKey() (string, error) {
	const op = "secret.NewKey"
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash принимает ключ и возвращает его bcrypt‑хэш.
func Hash(key string) (string, error) {
	const op = "secret.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), keyCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt‑хэш с предъявленным ключом.
//
// Возвращает nil, если ключ соответствует хэшу, иначе — ошибку.
func Compare(hash, key string) error {
	const op = "secret.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
