package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana counts requests of one client IP inside a fixed window.
type ventana struct {
	count int
	fin   time.Time
}

// limitador is a per-IP fixed-window counter shared by the login and the
// general API limiters.
type limitador struct {
	nombre   string
	limite   int
	duracion time.Duration

	mu       sync.Mutex
	ventanas map[string]*ventana
}

func nuevoLimitador(nombre string, limite int, duracion time.Duration) *limitador {
	l := &limitador{nombre: nombre, limite: limite, duracion: duracion, ventanas: make(map[string]*ventana)}
	go l.purgar(5 * time.Minute)
	return l
}

// permitir registers one request for ip and reports whether it fits the
// limit, plus the end of the current window.
func (l *limitador) permitir(ip string, ahora time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.ventanas[ip]
	if !ok || ahora.After(v.fin) {
		v = &ventana{fin: ahora.Add(l.duracion)}
		l.ventanas[ip] = v
	}
	v.count++
	return v.count <= l.limite, v.fin
}

// purgar drops expired windows so IPs that never return do not accumulate.
func (l *limitador) purgar(cada time.Duration) {
	ticker := time.NewTicker(cada)
	defer ticker.Stop()
	for range ticker.C {
		ahora := time.Now()
		l.mu.Lock()
		purgadas := 0
		for ip, v := range l.ventanas {
			if ahora.After(v.fin) {
				delete(l.ventanas, ip)
				purgadas++
			}
		}
		restantes := len(l.ventanas)
		l.mu.Unlock()
		if purgadas > 0 {
			log.Debug().Str("limitador", l.nombre).Int("purgadas", purgadas).Int("restantes", restantes).Msg("rate limiter purgado")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := nuevoLimitador("login", 20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP(), time.Now()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter caps every IP at limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := nuevoLimitador("api", limit, window)
	return func(c *gin.Context) {
		ok, fin := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
