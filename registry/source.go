package registry

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	getter "github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/internal/httpclient"
)

// FetchOptions control remote registry downloads
type FetchOptions struct {
	AllowPrivate bool          // Permit http(s) sources on loopback or private networks
	Timeout      time.Duration // Default: httpclient.DefaultTimeout
}

// Fetch resolves a registry source to local YAML bytes. Local paths
// (absolute, relative or ~/) are read directly; anything go-getter detects
// as remote (https, s3, git::...) is downloaded to a temporary file first.
//
// Fetch is the only registry entry point that touches the network, and it
// runs before any computation.
func Fetch(ctx context.Context, src string, log *zap.SugaredLogger) ([]byte, error) {
	return FetchWith(ctx, src, FetchOptions{}, log)
}

// FetchWith is Fetch with explicit download options. http and https sources
// go through a client that refuses private addresses unless allowed.
func FetchWith(ctx context.Context, src string, opts FetchOptions, log *zap.SugaredLogger) ([]byte, error) {
	if strings.HasPrefix(src, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to expand home directory")
		}
		src = filepath.Join(home, src[2:])
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to detect registry source %s", src)
	}
	log.Debugw("Registry source detected", "source", src, "detected", detected)

	u, err := url.Parse(detected)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse registry source %s", detected)
	}
	if u.Scheme == "file" || u.Scheme == "" {
		path := src
		if u.Scheme == "file" {
			path = u.Path
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read registry %s", path)
		}
		return data, nil
	}

	hc := httpclient.Options{AllowPrivate: opts.AllowPrivate}
	if u.Scheme == "http" || u.Scheme == "https" {
		if _, err := httpclient.NewGuard(hc).ValidateURL(detected); err != nil {
			return nil, errors.Wrapf(err, "registry source %s rejected", detected)
		}
	}
	getters := make(map[string]getter.Getter, len(getter.Getters))
	for scheme, g := range getter.Getters {
		getters[scheme] = g
	}
	httpGetter := &getter.HttpGetter{Client: httpclient.New(opts.Timeout, hc)}
	getters["http"] = httpGetter
	getters["https"] = httpGetter

	tempDir, err := os.MkdirTemp("", "watercolor-registry-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	dst := filepath.Join(tempDir, "registry.yaml")
	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getters,
	}

	log.Infow("Fetching registry", "source", detected)
	if err := client.Get(); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch registry %s", detected)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read fetched registry")
	}
	return data, nil
}
