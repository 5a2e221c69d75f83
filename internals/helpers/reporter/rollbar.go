package reporter

import (
	"log"
	"sync/atomic"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
)

var enabled atomic.Bool

// Init mengaktifkan Rollbar kalau token ada; tanpa token hanya log lokal.
func Init(token, env, host string) {
	if token == "" {
		rollbar.SetEnabled(false)
		log.Println("⚠️ ROLLBAR_TOKEN kosong, error hanya dicatat di log")
		return
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetServerHost(host)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(true)
	enabled.Store(true)
	log.Println("✅ Rollbar aktif")
}

func Enabled() bool { return enabled.Load() }

// Error mencatat err (+ konteks request) ke log dan Rollbar.
func Error(err error, extras map[string]interface{}) {
	if err == nil {
		return
	}
	log.Printf("[ERROR] %v %v", err, extras)
	if enabled.Load() {
		rollbar.Error(err, extras)
	}
}

// Flush menunggu antrean Rollbar terkirim (dipanggil saat shutdown).
func Flush() {
	if enabled.Load() {
		rollbar.Wait()
	}
}
