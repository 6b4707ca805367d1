// Package fingerprint вычисляет перцептивные отпечатки изображений: для каждого
// варианта предобработки (кроп + способ приведения к 512×512) считается
// 256-битный вейвлет-хеш. Отпечаток (вектор хешей) детерминирован: одинаковые
// байты дают одинаковый вектор.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"math/bits"
)

// HashBits — длина хеша одного варианта в битах (сетка 16×16).
const HashBits = 256

// Hash — 256-битный перцептивный хеш. Бит 0 — старший бит первого слова
// (порядок построчный, слева направо).
type Hash [HashBits / 64]uint64

// SetBit устанавливает бит i (0..255).
func (h *Hash) SetBit(i int) {
	h[i/64] |= 1 << (63 - uint(i%64))
}

// Bit возвращает бит i.
func (h Hash) Bit(i int) bool {
	return h[i/64]&(1<<(63-uint(i%64))) != 0
}

// Distance — расстояние Хэмминга между двумя хешами.
func (h Hash) Distance(o Hash) int {
	d := 0
	for i := range h {
		d += bits.OnesCount64(h[i] ^ o[i])
	}
	return d
}

// String — hex-представление (64 символа).
func (h Hash) String() string {
	buf := make([]byte, 0, len(h)*8)
	for _, w := range h {
		var b [8]byte
		for i := 0; i < 8; i++ {
			b[i] = byte(w >> (56 - 8*i))
		}
		buf = append(buf, b[:]...)
	}
	return hex.EncodeToString(buf)
}

// ParseHash разбирает hex-представление из String.
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("fingerprint.ParseHash: %w", err)
	}
	if len(raw) != HashBits/8 {
		return h, fmt.Errorf("fingerprint.ParseHash: ожидалось %d байт, получено %d", HashBits/8, len(raw))
	}
	for i := range h {
		var w uint64
		for j := 0; j < 8; j++ {
			w = w<<8 | uint64(raw[i*8+j])
		}
		h[i] = w
	}
	return h, nil
}

// MarshalText/UnmarshalText — hex в JSON (хранение вектора в jsonb).
func (h Hash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash) UnmarshalText(data []byte) error {
	parsed, err := ParseHash(string(data))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// VariantHash — пара (имя варианта, хеш).
type VariantHash struct {
	Name string `json:"name"`
	Hash Hash   `json:"hash"`
}

// Vector — упорядоченный список хешей по вариантам; единица сравнения и хранения.
type Vector []VariantHash
