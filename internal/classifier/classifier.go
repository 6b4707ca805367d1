// Package classifier оборачивает предобученную модель градиентного бустинга
// (LightGBM, текстовый формат), решающую по diff-вектору, дубликат ли картинка.
// Модель обучается офлайн и загружается один раз на старте; предсказания
// безопасны для неограниченного конкурентного чтения.
package classifier

import (
	"fmt"
	"sort"

	"github.com/dmitryikh/leaves"

	"github.com/zamzabot/internal/fingerprint"
)

// Threshold — порог вероятности, выше которого вердикт "дубликат".
const Threshold = 0.5

// Verdict — результат классификации одного сравнения.
type Verdict struct {
	Duplicate   bool
	Probability float64 // вероятность класса "дубликат"
}

// Model — загруженная модель и зафиксированный порядок фич.
type Model struct {
	ensemble *leaves.Ensemble
	features []string
}

// Load читает артефакт модели. variantNames — имена вариантов отпечатка;
// порядок фич — имена, отсортированные лексикографически (так сортирует колонки
// офлайн-тренер). Число фич модели обязано совпадать с числом вариантов.
func Load(path string, variantNames []string) (*Model, error) {
	ens, err := leaves.LGEnsembleFromFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("classifier.Load %s: %w", path, err)
	}
	features := make([]string, len(variantNames))
	copy(features, variantNames)
	sort.Strings(features)
	if ens.NFeatures() != len(features) {
		return nil, fmt.Errorf("classifier.Load %s: модель ожидает %d фич, вариантов %d",
			path, ens.NFeatures(), len(features))
	}
	return &Model{ensemble: ens, features: features}, nil
}

// Predict классифицирует diff-вектор. Набор ключей обязан совпадать с набором
// вариантов, под который загружена модель.
func (m *Model) Predict(d fingerprint.DiffVector) (Verdict, error) {
	fv, err := featureVector(m.features, d)
	if err != nil {
		return Verdict{}, err
	}
	p := m.ensemble.PredictSingle(fv, 0)
	return Verdict{Duplicate: p >= Threshold, Probability: p}, nil
}

// featureVector раскладывает diff-вектор в слайс по зафиксированному порядку фич.
func featureVector(features []string, d fingerprint.DiffVector) ([]float64, error) {
	if len(d) != len(features) {
		return nil, fmt.Errorf("classifier: %d значений в diff-векторе, ожидалось %d", len(d), len(features))
	}
	fv := make([]float64, len(features))
	for i, name := range features {
		v, ok := d[name]
		if !ok {
			return nil, fmt.Errorf("classifier: в diff-векторе нет фичи %q", name)
		}
		fv[i] = float64(v)
	}
	return fv, nil
}
