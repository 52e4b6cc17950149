// Package metrics собирает и публикует метрики Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector собирает счетчики аутентификации и провижининга подписок.
type Collector struct {
	logins            *prometheus.CounterVec
	signups           *prometheus.CounterVec
	trialsProvisioned prometheus.Counter
}

// Результаты операций для меток счетчиков.
const (
	ResultOK                 = "ok"
	ResultInvalidCredentials = "invalid_credentials"
	ResultExpired            = "expired"
	ResultRejected           = "rejected"
	ResultError              = "error"
)

// NewCollector создает Collector и регистрирует метрики в переданном регистре.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gate_logins_total",
			Help: "Количество попыток входа по результату",
		}, []string{"result"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gate_signups_total",
			Help: "Количество регистраций по результату",
		}, []string{"result"}),
		trialsProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gate_trials_provisioned_total",
			Help: "Количество созданных пробных подписок",
		}),
	}
	reg.MustRegister(c.logins, c.signups, c.trialsProvisioned)
	return c
}

// RecordLogin учитывает попытку входа с результатом result.
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordSignup учитывает попытку регистрации с результатом result.
func (c *Collector) RecordSignup(result string) {
	c.signups.WithLabelValues(result).Inc()
}

// RecordTrialProvisioned учитывает созданную пробную подписку.
func (c *Collector) RecordTrialProvisioned() {
	c.trialsProvisioned.Inc()
}
