package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamzabot/internal/fingerprint"
)

func TestFeatureVectorOrder(t *testing.T) {
	// порядок фич — лексикографический, независимо от порядка ключей diff-вектора
	features := []string{"a_variant", "b_variant", "c_variant"}
	d := fingerprint.DiffVector{
		"c_variant": 3,
		"a_variant": 1,
		"b_variant": 2,
	}
	fv, err := featureVector(features, d)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, fv)
}

func TestFeatureVectorMissingFeature(t *testing.T) {
	features := []string{"a_variant", "b_variant"}
	d := fingerprint.DiffVector{"a_variant": 1, "x_variant": 2}
	_, err := featureVector(features, d)
	assert.Error(t, err, "отсутствующая фича должна давать ошибку")
}

func TestFeatureVectorCountMismatch(t *testing.T) {
	features := []string{"a_variant", "b_variant"}
	d := fingerprint.DiffVector{"a_variant": 1}
	_, err := featureVector(features, d)
	assert.Error(t, err, "неполный diff-вектор должен давать ошибку")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/no-such-model.txt", []string{"a"})
	assert.Error(t, err, "отсутствующий файл модели должен давать ошибку")
}
