package setup

import (
	"testing"

	"github.com/itchan-dev/supportdesk/backend/internal/storage/files"
	"github.com/itchan-dev/supportdesk/backend/internal/storage/minio"
	"github.com/itchan-dev/supportdesk/backend/internal/storage/s3"
	"github.com/itchan-dev/supportdesk/shared/config"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	cfg := config.Default().WithStorageToken("secret")
	cfg.Public.Storage.Host = "https://dbc.example.com"
	cfg.Public.Storage.Bucket = "support"
	cfg.Public.Storage.AccessKeyID = "id"
	cfg.Public.Storage.Endpoint = "localhost:9000"

	cfg.Public.Storage.Backend = config.BackendFiles
	store, err := NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &files.Storage{}, store)
	assert.NoError(t, store.CheckConfig())

	cfg.Public.Storage.Backend = config.BackendS3
	store, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &s3.Storage{}, store)
	assert.NoError(t, store.CheckConfig())

	cfg.Public.Storage.Backend = config.BackendMinio
	store, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &minio.Storage{}, store)
	assert.NoError(t, store.CheckConfig())

	cfg.Public.Storage.Backend = "ftp"
	_, err = NewStore(cfg)
	assert.Error(t, err)
}

func TestSetupDependenciesWithoutToken(t *testing.T) {
	deps, err := SetupDependencies(config.Default())

	require.NoError(t, err)
	require.NotNil(t, deps.Handler)
	var cfgErr *internal_errors.ConfigurationError
	assert.ErrorAs(t, deps.Store.CheckConfig(), &cfgErr)
}
