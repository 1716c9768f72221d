package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-lending/pkg/auth"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "ok. development default secret",
			cfg:  Config{AppEnv: "development", StorageDriver: DriverPostgres, Auth: auth.Config{Secret: auth.DefaultSecret}},
		},
		{
			name: "ok. production secret",
			cfg:  Config{AppEnv: EnvProduction, StorageDriver: DriverMongo, Auth: auth.Config{Secret: "k8s-mounted-secret"}},
		},
		{
			name:    "err. production default secret",
			cfg:     Config{AppEnv: EnvProduction, StorageDriver: DriverPostgres, Auth: auth.Config{Secret: auth.DefaultSecret}},
			wantErr: "JWT_SECRET must be set in production",
		},
		{
			name:    "err. empty secret",
			cfg:     Config{StorageDriver: DriverPostgres},
			wantErr: "JWT_SECRET is empty",
		},
		{
			name:    "err. unknown driver",
			cfg:     Config{StorageDriver: "sqlite", Auth: auth.Config{Secret: "s"}},
			wantErr: `unknown STORAGE_DRIVER "sqlite"`,
		},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if tt.wantErr == "" {
			require.NoError(t, err, tt.name)
			continue
		}
		require.EqualError(t, err, tt.wantErr, tt.name)
	}
}
