package fingerprint

import (
	"errors"
	"fmt"
)

// ErrFeatureMismatch — diff запрошен между векторами с разными наборами вариантов.
var ErrFeatureMismatch = errors.New("fingerprint: наборы вариантов не совпадают")

// DiffVector — расстояние Хэмминга по каждому варианту; вход классификатора.
type DiffVector map[string]int

// Diff считает повариантное расстояние между двумя векторами. Наборы имён
// вариантов должны совпадать, иначе ErrFeatureMismatch.
func Diff(a, b Vector) (DiffVector, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d и %d вариантов", ErrFeatureMismatch, len(a), len(b))
	}
	byName := make(map[string]Hash, len(b))
	for _, vh := range b {
		byName[vh.Name] = vh.Hash
	}
	d := make(DiffVector, len(a))
	for _, vh := range a {
		other, ok := byName[vh.Name]
		if !ok {
			return nil, fmt.Errorf("%w: вариант %q отсутствует во втором векторе", ErrFeatureMismatch, vh.Name)
		}
		d[vh.Name] = vh.Hash.Distance(other)
	}
	if len(d) != len(a) {
		// дубль имени в первом векторе скрыл бы расхождение наборов
		return nil, fmt.Errorf("%w: дублирующиеся имена вариантов", ErrFeatureMismatch)
	}
	return d, nil
}
