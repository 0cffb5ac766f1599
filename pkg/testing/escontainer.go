package testing

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ESContainer represents a running Elasticsearch test container
type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// NewESContainer starts an Elasticsearch test container. The caller
// owns termination.
func NewESContainer(ctx context.Context) (*ESContainer, error) {
	esContainer, err := elasticsearch.Run(ctx,
		"docker.elastic.co/elasticsearch/elasticsearch:8.12.0",
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start elasticsearch container: %w", err)
	}

	host, err := esContainer.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get elasticsearch host: %w", err)
	}

	port, err := esContainer.MappedPort(ctx, "9200")
	if err != nil {
		return nil, fmt.Errorf("failed to get elasticsearch port: %w", err)
	}

	return &ESContainer{
		Container: esContainer,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}
