package dealership

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryYAML = `
dealerships:
  - id: 1
    pid: sunrise-toyota
    name: Sunrise Toyota
    brand: Toyota
    phone: "+15550100"
    timezone: America/New_York
    business_hours:
      monday: {open: "09:00", close: "18:00"}
      saturday: {open: "10:00", close: "16:00"}
    rate_limit: 2
    config:
      tone: friendly
      after_hours_message: "We open at 9am!"
  - id: 2
    pid: metro-ford
    name: Metro Ford
    brand: Ford
`

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dealerships.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	r, err := Load(writeRegistry(t, registryYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	d, err := r.ByPID("sunrise-toyota")
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Toyota", d.Name)
	assert.Equal(t, "Toyota", d.Brand)
	assert.Equal(t, "America/New_York", d.Timezone)
	require.Contains(t, d.BusinessHours, "monday")
	assert.Equal(t, "09:00", d.BusinessHours["monday"].Open)
	require.NotNil(t, d.Config)
	assert.Equal(t, "friendly", d.Config.Tone)
	assert.Equal(t, "We open at 9am!", d.Config.AfterHoursMessage)
}

func TestLoadMissingFileIsEmptyRegistry(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeRegistry(t, "dealerships: [not: {valid"))
	assert.Error(t, err)
}

func TestByPID(t *testing.T) {
	r, err := Load(writeRegistry(t, registryYAML))
	require.NoError(t, err)

	_, err = r.ByPID("nope")
	assert.ErrorIs(t, err, ErrDealershipNotFound)
}

func TestByPhone(t *testing.T) {
	r, err := Load(writeRegistry(t, registryYAML))
	require.NoError(t, err)

	d, err := r.ByPhone("+15550100")
	require.NoError(t, err)
	assert.Equal(t, "sunrise-toyota", d.PID)

	// Metro Ford has no phone configured.
	_, err = r.ByPhone("")
	assert.ErrorIs(t, err, ErrDealershipNotFound)
}

func TestAllow(t *testing.T) {
	r, err := Load(writeRegistry(t, registryYAML))
	require.NoError(t, err)

	// rate_limit 2 gives a burst of 4.
	for i := 0; i < 4; i++ {
		require.NoError(t, r.Allow("sunrise-toyota"), "request %d within burst", i)
	}
	assert.ErrorIs(t, r.Allow("sunrise-toyota"), ErrRateLimitExceeded)

	// No configured limit means unlimited.
	for i := 0; i < 100; i++ {
		require.NoError(t, r.Allow("metro-ford"))
	}

	// Unknown tenants pass through; existence checks are elsewhere.
	assert.NoError(t, r.Allow("nope"))
}
