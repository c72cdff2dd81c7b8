package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Circuito ─────────────────────────────────────────────────────────────────
// cerrado → abierto after Fallos consecutive errors; abierto → semiabierto once
// Espera has elapsed; semiabierto lets a single probe through and closes again
// after Exitos consecutive successful probes.

type EstadoCircuito int

const (
	CircuitoCerrado EstadoCircuito = iota
	CircuitoAbierto
	CircuitoSemiAbierto
)

func (e EstadoCircuito) String() string {
	switch e {
	case CircuitoCerrado:
		return "closed"
	case CircuitoAbierto:
		return "open"
	case CircuitoSemiAbierto:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitoAbierto is returned without calling fn while the circuit is open
// or a half-open probe is already in flight.
var ErrCircuitoAbierto = errors.New("circuit breaker abierto")

type ConfigCircuito struct {
	Fallos int
	Exitos int
	Espera time.Duration
}

// ConfigCircuitoSMTP is what the mailer runs with.
func ConfigCircuitoSMTP() ConfigCircuito {
	return ConfigCircuito{Fallos: 5, Exitos: 2, Espera: time.Minute}
}

type Circuito struct {
	cfg   ConfigCircuito
	ahora func() time.Time

	mu        sync.Mutex
	estado    EstadoCircuito
	fallos    int
	exitos    int
	abiertoEn time.Time
	sondeando bool
}

func NuevoCircuito(cfg ConfigCircuito) *Circuito {
	def := ConfigCircuitoSMTP()
	if cfg.Fallos <= 0 {
		cfg.Fallos = def.Fallos
	}
	if cfg.Exitos <= 0 {
		cfg.Exitos = def.Exitos
	}
	if cfg.Espera <= 0 {
		cfg.Espera = def.Espera
	}
	return &Circuito{cfg: cfg, ahora: time.Now}
}

// Estado reports the current state, moving abierto to semiabierto when the
// wait is over.
func (c *Circuito) Estado() EstadoCircuito {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estadoLocked()
}

func (c *Circuito) estadoLocked() EstadoCircuito {
	if c.estado == CircuitoAbierto && c.ahora().Sub(c.abiertoEn) >= c.cfg.Espera {
		c.estado = CircuitoSemiAbierto
		c.exitos = 0
	}
	return c.estado
}

// Ejecutar runs fn unless the circuit rejects the call.
func (c *Circuito) Ejecutar(fn func() error) error {
	c.mu.Lock()
	switch c.estadoLocked() {
	case CircuitoAbierto:
		c.mu.Unlock()
		return ErrCircuitoAbierto
	case CircuitoSemiAbierto:
		if c.sondeando {
			c.mu.Unlock()
			return ErrCircuitoAbierto
		}
		c.sondeando = true
	}
	c.mu.Unlock()

	err := fn()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sondeando = false
	if err != nil {
		c.registrarFallo()
		return err
	}
	c.registrarExito()
	return nil
}

func (c *Circuito) registrarFallo() {
	c.fallos++
	if c.estado == CircuitoSemiAbierto || c.fallos >= c.cfg.Fallos {
		c.estado = CircuitoAbierto
		c.abiertoEn = c.ahora()
		c.fallos = 0
		c.exitos = 0
	}
}

func (c *Circuito) registrarExito() {
	c.fallos = 0
	if c.estado != CircuitoSemiAbierto {
		return
	}
	c.exitos++
	if c.exitos >= c.cfg.Exitos {
		c.estado = CircuitoCerrado
		c.exitos = 0
	}
}
