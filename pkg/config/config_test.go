package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Reports.WorkerRetries)
	assert.Equal(t, "Institut Biblique de l'Alliance Chrétienne de Yamoussoukro", cfg.Institute.Name)
	assert.Equal(t, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), cfg.Institute.AcademicYearStart)
	assert.Equal(t, "Directeur Général", cfg.Institute.GeneralDirectorTitle)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	v.Set("BULLETIN_CACHE_TTL", "not-a-duration")
	v.Set("ACADEMIC_YEAR_END", "2026-06-30")

	cfg := fromViper(v)

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), cfg.Institute.AcademicYearEnd)
}
