package di

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// AWS loads the shared AWS configuration on first use. Runs that neither read
// the token from AWS nor mirror artifacts to S3 never load it.
type AWS struct {
	once sync.Once
	cfg  aws.Config
	err  error
}

func ProvideAWS() *AWS {
	return &AWS{}
}

func (a *AWS) Config(ctx context.Context) (aws.Config, error) {
	a.once.Do(func() {
		a.cfg, a.err = config.LoadDefaultConfig(ctx)
	})
	return a.cfg, a.err
}
