package domain

import "testing"

func TestCapabilityDirections(t *testing.T) {
	tests := []struct {
		flowType FlowType
		want     Direction
	}{
		{FlowTypeCapitalCall, DirectionOutflow},
		{FlowTypeContribution, DirectionOutflow},
		{FlowTypeDistribution, DirectionInflow},
		{FlowTypeYield, DirectionInflow},
		{FlowTypeReturnOfPrincipal, DirectionInflow},
		{FlowTypeManagementFee, DirectionOutflow},
		{FlowTypeFees, DirectionOutflow},
		{FlowTypeOther, DirectionExcluded},
	}

	for _, tt := range tests {
		if got := CapabilityFor(tt.flowType).Direction; got != tt.want {
			t.Errorf("CapabilityFor(%s).Direction = %d, want %d", tt.flowType, got, tt.want)
		}
	}
}

func TestCapabilityUnknownTypeExcluded(t *testing.T) {
	cap := CapabilityFor(FlowType("mystery"))
	if cap.Direction != DirectionExcluded {
		t.Errorf("unknown type direction = %d, want excluded", cap.Direction)
	}
	if cap.Forecastable {
		t.Error("unknown type should not be forecastable")
	}
}

func TestCapabilityYieldFlag(t *testing.T) {
	if !CapabilityFor(FlowTypeYield).Yield {
		t.Error("yield type should carry the yield flag")
	}
	if CapabilityFor(FlowTypeDistribution).Yield {
		t.Error("distribution type should not carry the yield flag")
	}
}

func TestCapabilityFeesNotForecastable(t *testing.T) {
	for _, ft := range []FlowType{FlowTypeManagementFee, FlowTypeFees, FlowTypeOther} {
		if CapabilityFor(ft).Forecastable {
			t.Errorf("%s should be excluded from forecasting", ft)
		}
	}
}

func TestFlowTypeDisplay(t *testing.T) {
	tests := []struct {
		flowType FlowType
		want     string
	}{
		{FlowTypeCapitalCall, "Capital Call"},
		{FlowTypeReturnOfPrincipal, "Return of Principal"},
		{FlowType("mystery"), "Other"},
	}
	for _, tt := range tests {
		if got := tt.flowType.Display(); got != tt.want {
			t.Errorf("Display(%s) = %q, want %q", tt.flowType, got, tt.want)
		}
	}
}
