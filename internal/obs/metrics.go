package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Métricas de la caché de lecturas y del ciclo de sesiones.
var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_cache_hits_total",
			Help: "Lecturas servidas desde la caché (dentro de la ventana de frescura).",
		},
		[]string{"entity"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_cache_misses_total",
			Help: "Lecturas que fueron al gateway de datos.",
		},
		[]string{"entity"},
	)

	cacheStale = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_cache_stale_served_total",
			Help: "Lecturas servidas con datos vencidos tras un fallo transitorio del gateway.",
		},
		[]string{"entity"},
	)

	cacheInvalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_cache_invalidations_total",
			Help: "Invalidaciones gruesas por tipo de entidad tras mutaciones exitosas.",
		},
		[]string{"entity"},
	)

	sessionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crm_sessions_opened_total",
		Help: "Sesiones abiertas (sign-in o recuperación de sesión persistida).",
	})

	sessionsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crm_sessions_closed_total",
		Help: "Sesiones cerradas (sign-out o expiración).",
	})
)

// Init registra las métricas en el registro por defecto. Llamar una sola vez.
func Init() {
	prometheus.MustRegister(cacheHits, cacheMisses, cacheStale, cacheInvalidations, sessionsOpened, sessionsClosed)
}

// Handler expone /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CacheHit registra un acierto de caché para el tipo de entidad.
func CacheHit(entity string) { cacheHits.WithLabelValues(entity).Inc() }

// CacheMiss registra un fallo de caché (consulta real al gateway).
func CacheMiss(entity string) { cacheMisses.WithLabelValues(entity).Inc() }

// CacheStaleServed registra una lectura servida con datos vencidos.
func CacheStaleServed(entity string) { cacheStale.WithLabelValues(entity).Inc() }

// CacheInvalidated registra una invalidación gruesa del tipo de entidad.
func CacheInvalidated(entity string) { cacheInvalidations.WithLabelValues(entity).Inc() }

// SessionOpened registra la apertura de una sesión.
func SessionOpened() { sessionsOpened.Inc() }

// SessionClosed registra el cierre de una sesión.
func SessionClosed() { sessionsClosed.Inc() }
