package i18n

import (
	"strings"
	"testing"

	"greenhood/config"
	domainerrors "greenhood/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizer_Languages(t *testing.T) {
	tr, err := NewLocalizer(&config.Config{Localization: &config.LocalizationConfig{Language: "tr"}})
	require.NoError(t, err)
	en, err := NewLocalizer(&config.Config{Localization: &config.LocalizationConfig{Language: "en-US"}})
	require.NoError(t, err)

	assert.Equal(t, "Cam", tr.Get(DisposalTypeKey("Glass")))
	assert.Equal(t, "Glass", en.Get(DisposalTypeKey("Glass")))
	assert.Equal(t, "Wait 42 seconds before requesting another reset.", en.Get(domainerrors.KeyResetCooldown, 42))
	assert.Equal(t, "Welcome, Ayşe.", en.Get("loginsuccess", "Ayşe"))
}

func TestLocalizer_UnknownKeyRendersKey(t *testing.T) {
	l, err := NewLocalizer(nil)
	require.NoError(t, err)

	assert.Equal(t, "nosuchkey", l.Get("nosuchkey"))
	assert.Equal(t, "nosuchkey", l.Get("nosuchkey", 1, 2))
}

func TestLocalizer_EveryFailureKeyIsTranslated(t *testing.T) {
	l, err := NewLocalizerFor("en", strings.NewReader(messagesCSV))
	require.NoError(t, err)

	keys := []string{
		domainerrors.KeyInvalidName, domainerrors.KeyInvalidBirthDate, domainerrors.KeyInvalidNationalID,
		domainerrors.KeyInvalidEmail, domainerrors.KeyInvalidPhone, domainerrors.KeyInvalidOrgName,
		domainerrors.KeyInvalidFax, domainerrors.KeyInvalidTaxID, domainerrors.KeyWeakPassword,
		domainerrors.KeyInvalidAddress, domainerrors.KeyInvalidSex, domainerrors.KeyNoDisposalTypes,
		domainerrors.KeyInvalidMeasure, domainerrors.KeyInvalidInput,
		domainerrors.KeyDuplicateNationalID, domainerrors.KeyDuplicateEmail, domainerrors.KeyDuplicatePhone,
		domainerrors.KeyDuplicateTaxID, domainerrors.KeyDuplicateOrgName, domainerrors.KeyDuplicateFax,
		domainerrors.KeyInvalidCredentials, domainerrors.KeyOldPasswordNoMatch, domainerrors.KeyResetCooldown,
		domainerrors.KeyProfileUpdateFailed, domainerrors.KeyReservationFailed, domainerrors.KeyCancelFailed,
		domainerrors.KeyRecycleFailed, domainerrors.KeyDeleteFailed, domainerrors.KeyUnknownDisposalType,
		domainerrors.KeyNotLoggedIn, domainerrors.KeyForbiddenAction,
		domainerrors.KeyNetworkWarning, domainerrors.KeyErrorDB, domainerrors.KeyErrorUnexpected,
	}
	for _, key := range keys {
		assert.NotEqual(t, key, l.Get(key), key)
	}
}

func TestNewLocalizerFor_Errors(t *testing.T) {
	_, err := NewLocalizerFor("not a tag!", strings.NewReader(messagesCSV))
	assert.Error(t, err)

	_, err = NewLocalizerFor("ja", strings.NewReader(messagesCSV))
	assert.Error(t, err)

	_, err = NewLocalizerFor("en", strings.NewReader("key;tr;en\nbroken;only-two\n"))
	assert.Error(t, err)
}

func TestLocalizer_EmbeddedCatalogKeepsQuotedSeparators(t *testing.T) {
	tr, err := NewLocalizerFor("tr", strings.NewReader(messagesCSV))
	require.NoError(t, err)
	en, err := NewLocalizerFor("en", strings.NewReader(messagesCSV))
	require.NoError(t, err)

	assert.Equal(t, "Invalid birth date. Use YYYY-MM-DD; age must be between 8 and 100.", en.Get(domainerrors.KeyInvalidBirthDate))
	assert.Equal(t, "Şifre 8-50 karakter olmalı; büyük harf, küçük harf ve rakam içermelidir.", tr.Get(domainerrors.KeyWeakPassword))
}

func TestLoad_RejectsRowsWithStraySeparators(t *testing.T) {
	_, err := NewLocalizerFor("en", strings.NewReader("key;tr;en\nweakpassword;a;b;c\n"))
	assert.Error(t, err)
}
