package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-sif/crimeflow/crime"
	"github.com/go-sif/crimeflow/logging"
	"github.com/go-sif/crimeflow/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables which configure crimejob, e.g. CRIMEFLOW_BACKENDS
const EnvPrefix = "CRIMEFLOW"

// loadConfig layers flags over environment variables over the optional config file
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if cfgFile := v.GetString("config"); len(cfgFile) > 0 {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}
	return v, nil
}

// splitList parses a comma-separated list, ignoring blank entries
func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); len(item) > 0 {
			out = append(out, item)
		}
	}
	return out
}

func newLogger(v *viper.Viper) (logging.Logger, error) {
	level, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	return logging.New(log.Default(), level), nil
}

// newStorage routes file URIs to the local filesystem and, when an endpoint is
// configured, s3 URIs to the object store
func newStorage(v *viper.Viper) (*storage.Router, error) {
	router := storage.NewRouter().Register("file", storage.NewLocalFS(nil))
	if endpoint := v.GetString("s3-endpoint"); len(endpoint) > 0 {
		s3, err := storage.NewS3FS(storage.S3Config{
			Endpoint:        endpoint,
			AccessKeyID:     v.GetString("s3-access-key"),
			SecretAccessKey: v.GetString("s3-secret-key"),
			Region:          v.GetString("s3-region"),
			UseSSL:          v.GetBool("s3-ssl"),
		})
		if err != nil {
			return nil, err
		}
		router.Register("s3", s3)
	}
	return router, nil
}

// loadDictionary reads the configured dictionary, or returns the default one
func loadDictionary(ctx context.Context, v *viper.Viper, fs storage.FileSystem) (*crime.Dictionary, error) {
	uri := v.GetString("dictionary")
	if len(uri) == 0 {
		return crime.DefaultDictionary(), nil
	}
	r, err := fs.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return crime.LoadDictionary(data)
}

// serveMetrics exposes the metrics gathered by reg on addr, until the returned function is called
func serveMetrics(addr string, reg *prometheus.Registry, logger logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log(logging.ErrorLevel, "Metrics server on %s failed: %v", addr, err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}
