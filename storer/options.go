package storer

import "context"

type Option func(*Options)

type Options struct {
	ApiKey     string
	Index      string
	Region     string
	Cloud      string
	Location   string
	VectorSize int
	Metric     string
	Context    context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithIndex(index string) Option {
	return func(o *Options) {
		o.Index = index
	}
}

func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

func WithCloud(cloud string) Option {
	return func(o *Options) {
		o.Cloud = cloud
	}
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithVectorSize(size int) Option {
	return func(o *Options) {
		o.VectorSize = size
	}
}

func WithMetric(metric string) Option {
	return func(o *Options) {
		o.Metric = metric
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Region:  "us-east-1",
		Cloud:   "aws",
		Metric:  "cosine",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
