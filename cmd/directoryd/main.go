// Command directoryd runs an in-memory bundle directory for local
// development and integration testing. It serves the same routes a
// production directory would, without durable storage or eligibility
// enforcement.
package main

import (
	"flag"
	"net/http"

	"github.com/sirupsen/logrus"

	"keyward/internal/directory"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log := logrus.New()
	engine := directory.NewMemory()

	log.WithField("addr", *addr).Info("directory listening")
	if err := http.ListenAndServe(*addr, directory.Handler(engine, log)); err != nil {
		log.WithError(err).Fatal("directory server stopped")
	}
}
