package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	a "storefront-backend/internal/domains/address"
)

func TestGatewayObserver(t *testing.T) {
	obs := NewGatewayObserver()

	okBefore := testutil.ToFloat64(GatewayOperationsTotal.WithLabelValues("set_default", "ok"))
	nfBefore := testutil.ToFloat64(GatewayOperationsTotal.WithLabelValues("set_default", a.CodeAddressNotFound))
	unknownBefore := testutil.ToFloat64(GatewayOperationsTotal.WithLabelValues("fetch_all", "UNKNOWN_ERROR"))

	obs.ObserveGatewayOp("set_default", nil)
	obs.ObserveGatewayOp("set_default", a.NewAddressNotFound("a1"))
	obs.ObserveGatewayOp("fetch_all", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(GatewayOperationsTotal.WithLabelValues("set_default", "ok")))
	assert.Equal(t, nfBefore+1, testutil.ToFloat64(GatewayOperationsTotal.WithLabelValues("set_default", a.CodeAddressNotFound)))
	assert.Equal(t, unknownBefore+1, testutil.ToFloat64(GatewayOperationsTotal.WithLabelValues("fetch_all", "UNKNOWN_ERROR")))
}
