package app_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bankimport/internal/app"
	"github.com/MrJamesThe3rd/bankimport/internal/config"
	"github.com/MrJamesThe3rd/bankimport/internal/importer"
	"github.com/MrJamesThe3rd/bankimport/internal/profile"
	"github.com/MrJamesThe3rd/bankimport/internal/transaction"
)

func TestNew_MissingProfilesFile(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ledger.Driver = config.LedgerMongo
	cfg.Profiles.Source = config.ProfilesFile
	cfg.Profiles.File = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := app.New(context.Background(), cfg, slog.Default())
	assert.Error(t, err)
}

func TestApp_Coordinator(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Import.DefaultCodePage = "windows-1252"

	a := app.NewWithServices(cfg, slog.Default(),
		profile.NewService(profile.NewMockRepository(ctrl)),
		transaction.NewService(transaction.NewMockRepository(ctrl)),
	)

	c := a.Coordinator()
	require.NotNil(t, c)
	assert.Equal(t, importer.Idle, c.State())
	assert.NoError(t, a.Close())
}
