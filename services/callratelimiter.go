package services

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/texuf/towns-utils/metrics"
)

var (
	rateLimiterVisitors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "towns_api_rate_limiter_visitors_count",
		Help: "Number of visitors in the api call rate limiter",
	})
	rateLimiterNewVisitors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "towns_api_rate_limiter_new_visitors_count",
		Help: "Number of new visitors in the api call rate limiter",
	})
	rateLimiterRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "towns_api_rate_limiter_rejected_count",
		Help: "Number of api calls rejected by the call rate limiter",
	})
)

// CallRateLimiter limits api calls per client ip.
type CallRateLimiter struct {
	proxyCount uint
	rateLimit  uint
	burstLimit uint

	mutex    sync.Mutex
	visitors map[string]*callRateVisitor
}

type callRateVisitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewCallRateLimiter creates a rate limiter allowing rateLimit calls per second
// with bursts of burstLimit. proxyCount is the number of trusted reverse proxies
// in front of the api, used to pick the client ip from X-Forwarded-For.
func NewCallRateLimiter(ctx context.Context, proxyCount uint, rateLimit uint, burstLimit uint) *CallRateLimiter {
	crl := &CallRateLimiter{
		proxyCount: proxyCount,
		rateLimit:  rateLimit,
		burstLimit: burstLimit,
		visitors:   map[string]*callRateVisitor{},
	}
	go crl.cleanupVisitors(ctx)

	metrics.AddPreCollectFn(func() {
		crl.mutex.Lock()
		defer crl.mutex.Unlock()

		rateLimiterVisitors.Set(float64(len(crl.visitors)))
	})

	return crl
}

func (crl *CallRateLimiter) CheckCallLimit(r *http.Request, callCost uint) error {
	if crl == nil {
		return nil
	}
	visitor := crl.getVisitor(r)
	if visitor == nil {
		return fmt.Errorf("could not get visitor")
	}
	if !visitor.limiter.AllowN(time.Now(), int(callCost)) {
		rateLimiterRejected.Inc()
		return fmt.Errorf("call rate limit exceeded")
	}
	return nil
}

func (crl *CallRateLimiter) getVisitor(r *http.Request) *callRateVisitor {
	var ip string

	if crl.proxyCount > 0 {
		forwardIps := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		forwardIdx := len(forwardIps) - int(crl.proxyCount)
		if forwardIdx >= 0 {
			ip = strings.TrimSpace(forwardIps[forwardIdx])
		}
	}
	if ip == "" {
		var err error
		ip, _, err = net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return nil
		}
	}

	crl.mutex.Lock()
	defer crl.mutex.Unlock()

	visitor := crl.visitors[ip]
	if visitor == nil {
		visitor = &callRateVisitor{
			limiter:  rate.NewLimiter(rate.Limit(crl.rateLimit), int(crl.burstLimit)),
			lastSeen: time.Now(),
		}
		crl.visitors[ip] = visitor
		rateLimiterNewVisitors.Inc()
	} else {
		visitor.lastSeen = time.Now()
	}
	return visitor
}

func (crl *CallRateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		crl.mutex.Lock()
		for ip, v := range crl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(crl.visitors, ip)
			}
		}
		crl.mutex.Unlock()
	}
}
