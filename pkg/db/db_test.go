package db

import (
	"context"
	"testing"
	"time"

	"projecthub/pkg/config"
	"projecthub/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDSN(t *testing.T) {
	cfg := config.DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "hub",
		Password: "pw",
		Name:     "projecthub",
	}
	dsn := DSN(cfg)
	assert.Equal(t, "postgres://hub:pw@db.internal:5433/projecthub?sslmode=disable", dsn)

	parsed, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", parsed.ConnConfig.Host)
	assert.Equal(t, uint16(5433), parsed.ConnConfig.Port)
	assert.Equal(t, "projecthub", parsed.ConnConfig.Database)
}

func TestSlowQueryTracer(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tracer := NewSlowQueryTracer(zap.New(core), 50*time.Millisecond)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tracer.now = func() time.Time { return clock }

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "INSERT INTO notifications_log VALUES ($1)"})
	clock = clock.Add(10 * time.Millisecond)
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	assert.Equal(t, 0, logs.Len())

	before := testutil.ToFloat64(metrics.SlowQueries.WithLabelValues("INSERT"))
	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "insert into notifications_log values ($1)"})
	clock = clock.Add(time.Second)
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "slow-query", logs.All()[0].Message)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SlowQueries.WithLabelValues("INSERT")))
}

func TestStatementVerb(t *testing.T) {
	assert.Equal(t, "SELECT", statementVerb("  select 1"))
	assert.Equal(t, "unknown", statementVerb(""))
}
