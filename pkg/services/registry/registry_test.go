package registry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
	"github.com/mule-tools/mule-atlas/pkg/services/settings"
)

type fakeChecker struct {
	name string
}

func (f *fakeChecker) Name() string { return f.name }

func (f *fakeChecker) Run(ctx context.Context, target domain.Target) (*domain.Result, error) {
	return domain.NewResult(f.name), nil
}

func fakeFactory(name string) Factory {
	return func(cfg settings.Config, logger zerolog.Logger) (Checker, error) {
		return &fakeChecker{name: name}, nil
	}
}

func TestRegister(t *testing.T) {
	t.Run("rejects duplicate names", func(t *testing.T) {
		r := NewRegistry(map[string]Factory{"config": fakeFactory("config")})

		err := r.Register("config", fakeFactory("config"))
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("rejects empty name and nil factory", func(t *testing.T) {
		r := NewRegistry(nil)

		assert.Error(t, r.Register("", fakeFactory("x")))
		assert.Error(t, r.Register("x", nil))
	})
}

func TestCreate(t *testing.T) {
	r := NewRegistry(map[string]Factory{"logs": fakeFactory("logs")})

	t.Run("instantiates registered checker", func(t *testing.T) {
		c, err := r.Create("logs", settings.Default(), zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, "logs", c.Name())
	})

	t.Run("fails for unknown checker", func(t *testing.T) {
		_, err := r.Create("nope", settings.Default(), zerolog.Nop())
		assert.ErrorContains(t, err, "not registered")
	})
}

func TestListCheckers(t *testing.T) {
	r := NewRegistry(map[string]Factory{
		"security": fakeFactory("security"),
		"api":      fakeFactory("api"),
		"munit":    fakeFactory("munit"),
	})
	require.NoError(t, r.Register("config", fakeFactory("config")))

	assert.Equal(t, []string{"api", "config", "munit", "security"}, r.ListCheckers())
}
