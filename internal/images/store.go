// Package images moves uploaded menu pictures into object storage.
package images

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the images logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// ObjectStore is the interface for image object operations.
type ObjectStore interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key.
	URL(key string) string
	// KeyFromURL reverses URL; ok is false for references this store did not produce.
	KeyFromURL(ref string) (key string, ok bool)
}

// keyUnderBase strips base from ref and returns the remaining object key.
func keyUnderBase(base, ref string) (string, bool) {
	base = strings.TrimSuffix(base, "/")
	key, found := strings.CutPrefix(ref, base+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}
