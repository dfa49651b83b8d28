package setup

import (
	"fmt"

	"github.com/itchan-dev/supportdesk/backend/internal/handler"
	"github.com/itchan-dev/supportdesk/backend/internal/service"
	"github.com/itchan-dev/supportdesk/backend/internal/storage/files"
	"github.com/itchan-dev/supportdesk/backend/internal/storage/minio"
	"github.com/itchan-dev/supportdesk/backend/internal/storage/s3"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/logger"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Store   service.Store
	Handler *handler.Handler
}

// SetupDependencies initializes all dependencies required for the upload proxy.
// A missing credential is not an error here: the proxy starts and reports it per request.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.CheckConfig(); err != nil {
		logger.Log.Error("remote store is not configured", "backend", cfg.Public.Storage.Backend, "error", err)
	}

	upload := service.NewUpload(store, cfg)
	h := handler.New(upload, cfg)

	return &Dependencies{
		Config:  cfg,
		Store:   store,
		Handler: h,
	}, nil
}

// NewStore builds the remote store selected by storage.backend.
func NewStore(cfg *config.Config) (service.Store, error) {
	st := cfg.Public.Storage
	timeout := cfg.Public.Proxy.RemoteTimeout

	switch st.Backend {
	case config.BackendFiles:
		return files.New(st.Host, cfg.StorageToken(), timeout), nil
	case config.BackendS3:
		return s3.New(s3.Config{
			Bucket:          st.Bucket,
			Region:          st.Region,
			Endpoint:        st.Endpoint,
			AccessKeyID:     st.AccessKeyID,
			SecretAccessKey: cfg.StorageToken(),
			Timeout:         timeout,
		}), nil
	case config.BackendMinio:
		return minio.New(minio.Config{
			Endpoint:  st.Endpoint,
			UseSSL:    st.UseSSL,
			Region:    st.Region,
			Bucket:    st.Bucket,
			AccessKey: st.AccessKeyID,
			SecretKey: cfg.StorageToken(),
			Timeout:   timeout,
		}), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", st.Backend)
}
