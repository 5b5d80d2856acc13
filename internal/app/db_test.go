package app

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/config"
)

const testAppName = "sweeper_app_connect_test"

func countBackends(ctx context.Context, conn *pgx.Conn) int {
	var n int
	err := conn.QueryRow(ctx,
		`SELECT count(*) FROM pg_stat_activity WHERE application_name = $1`,
		testAppName,
	).Scan(&n)
	if err != nil {
		return -1
	}
	return n
}

func TestConnectDBLeavesOnlyPool(t *testing.T) {
	raw, ok := os.LookupEnv("TEST_DATABASE_URL")
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	q.Set("application_name", testAppName)
	u.RawQuery = q.Encode()

	ctx := context.Background()
	observer, err := pgx.Connect(ctx, raw)
	require.NoError(t, err)
	defer observer.Close(ctx)

	log, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Database = config.Database{URL: u.String()}

	a, err := New(log, cfg)
	require.NoError(t, err)
	require.NoError(t, a.connectDB(ctx))
	require.NotNil(t, a.db)
	defer a.db.Close()

	// the migrator's connection must be gone once connectDB returns
	assert.Eventually(t, func() bool {
		return countBackends(ctx, observer) == int(a.db.Stat().TotalConns())
	}, 5*time.Second, 100*time.Millisecond)
}
