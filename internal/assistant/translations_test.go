package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTranslationsOrderInsensitive(t *testing.T) {
	a := &fakeType{name: "A", translations: Translations{
		"de": {"Light": "Licht", "Switch": "Schalter"},
	}}
	b := &fakeType{name: "B", translations: Translations{
		"de": {"Light": "Licht", "Dimmer": "Dimmer"},
		"fr": {"Light": "Lumière"},
	}}

	r1 := NewRegistry(newMemStore(), testOwner)
	require.NoError(t, r1.Register(a))
	require.NoError(t, r1.Register(b))
	r2 := NewRegistry(newMemStore(), testOwner)
	require.NoError(t, r2.Register(b))
	require.NoError(t, r2.Register(a))

	t1, err := r1.BuildTranslations()
	require.NoError(t, err)
	t2, err := r2.BuildTranslations()
	require.NoError(t, err)

	assert.Equal(t, t1, t2)
	assert.Equal(t, "Schalter", t1["de"]["Switch"])
	assert.Equal(t, "Lumière", t1["fr"]["Light"])
	assert.Equal(t, "Geräteupdate anfragen", t1["de"]["Request device update"])
}

func TestBuildTranslationsConflict(t *testing.T) {
	r := NewRegistry(newMemStore(), testOwner)
	require.NoError(t, r.Register(&fakeType{name: "A", translations: Translations{"de": {"Light": "Licht"}}}))
	require.NoError(t, r.Register(&fakeType{name: "B", translations: Translations{"de": {"Light": "Lampe"}}}))

	_, err := r.BuildTranslations()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranslationConflict)
	assert.Contains(t, err.Error(), `"Light"`)
}

func TestBuildTranslationsConflictWithBase(t *testing.T) {
	r := NewRegistry(newMemStore(), testOwner)
	require.NoError(t, r.Register(&fakeType{name: "A", translations: Translations{"de": {"Status": "Zustand"}}}))

	_, err := r.BuildTranslations()
	assert.ErrorIs(t, err, ErrTranslationConflict)
}

func TestMergeTranslationsLeavesDestinationOnConflict(t *testing.T) {
	dst := Translations{"de": {"Light": "Licht"}}
	err := MergeTranslations(dst, Translations{
		"de": {"Light": "Lampe", "Switch": "Schalter"},
	})
	require.ErrorIs(t, err, ErrTranslationConflict)
	assert.Equal(t, Translations{"de": {"Light": "Licht"}}, dst)
}

func TestMergeTranslationsNilDestination(t *testing.T) {
	src := Translations{"de": {"Light": "Licht"}}
	assert.ErrorIs(t, MergeTranslations(nil, src), ErrNilTranslations)

	dst := Translations{}
	require.NoError(t, MergeTranslations(dst, src))
	require.NoError(t, MergeTranslations(dst, nil))
	assert.Equal(t, src, dst)
}
