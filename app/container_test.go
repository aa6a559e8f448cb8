package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/message_broker"
	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/store/memory"
	"github.com/RezaEskandarii/jobconsole/types/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroker struct {
	keys   []string
	closed bool
}

func (b *recordingBroker) Publish(ctx context.Context, routingKey string, message []byte) error {
	b.keys = append(b.keys, routingKey)
	return nil
}

func (b *recordingBroker) Close() error {
	b.closed = true
	return nil
}

var _ message_broker.MessageBroker = (*recordingBroker)(nil)

func memoryConfig(t *testing.T, opts ...config.ConfigOption) *config.ConsoleConfig {
	t.Helper()
	cfg, err := config.NewConsoleConfig("test", append([]config.ConfigOption{config.WithStorageDriver(config.Memory)}, opts...)...)
	require.NoError(t, err)
	return cfg
}

func TestNewContainer_MemoryDemo(t *testing.T) {
	jobs, apps := DemoSeed(time.Now())
	c, err := NewContainer(context.Background(), memoryConfig(t), WithSeed(jobs, apps))
	require.NoError(t, err)
	defer c.Close()

	res, err := c.Registry.FetchJobs(context.Background(), models.ListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, res.TotalItems)
	assert.Equal(t, "定时清理过期文件", res.Items[0].Name)

	names, err := c.Registry.ListApps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.AppItem{{AppName: "juno-admin"}}, names)

	_, isOutbox := c.TriggerOutbox.(*memory.TriggerOutbox)
	assert.True(t, isOutbox)
	assert.NoError(t, c.Migrate(context.Background()))
}

func TestNewContainer_BrokerCarriesTriggers(t *testing.T) {
	broker := &recordingBroker{}
	jobs, apps := DemoSeed(time.Now())
	c, err := NewContainer(context.Background(), memoryConfig(t), WithSeed(jobs, apps), WithBroker(broker))
	require.NoError(t, err)

	require.NoError(t, c.Registry.TriggerJob(context.Background(), 1))
	assert.Equal(t, []string{config.DefaultRoutingKey}, broker.keys)

	c.Close()
	assert.True(t, broker.closed)
}

func TestBootstrap_CreatesDashboardAdminOnce(t *testing.T) {
	cfg := memoryConfig(t, config.WithAdminDashboardConfig("admin", "s3cret", "key", 8080))
	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, c.Bootstrap(context.Background()))
	require.NoError(t, c.Bootstrap(context.Background()))

	u, err := c.UserStore.Find(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, u)
}

type failingUsers struct{ *memory.UserStore }

func (f failingUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, errors.New("db down")
}

func TestCreateDashboardAdmin_PropagatesLookupError(t *testing.T) {
	cfg := memoryConfig(t, config.WithAdminDashboardConfig("admin", "s3cret", "key", 8080))
	err := createDashboardAdminIfConfigured(context.Background(), cfg, failingUsers{memory.NewUserStore()})
	assert.Error(t, err)
}
