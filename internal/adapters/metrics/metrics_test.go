package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTransaction(t *testing.T) {
	m := New()

	m.ObserveTransaction("deployModules", 10*time.Millisecond, nil)
	m.ObserveTransaction("deployModules", 5*time.Millisecond, errors.New("execution reverted"))
	m.ObserveTransaction("setModule", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues("deployModules", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues("deployModules", "reverted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues("setModule", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.TransactionDuration))
}

func TestAddModulesDeployed(t *testing.T) {
	m := New()

	m.AddModulesDeployed("timelock", 1)
	m.AddModulesDeployed("governor", 2)
	m.AddModulesDeployed("timelock", 3)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.ModulesDeployed.WithLabelValues("timelock")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ModulesDeployed.WithLabelValues("governor")))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("/v1/modules", 200, time.Millisecond)
	m.ObserveRequest("/v1/modules", 200, time.Millisecond)
	m.ObserveRequest("/v1/modules", 503, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/v1/modules", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/v1/modules", "503")))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.AddModulesDeployed("treasury", 1)

	assert.Equal(t, 1, testutil.CollectAndCount(a.ModulesDeployed))
	assert.Equal(t, 0, testutil.CollectAndCount(b.ModulesDeployed))
}
