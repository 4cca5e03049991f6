package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	set := ObservationSet{
		Provenance: ProvenanceLive,
		Observations: []Observation{
			{Callsign: "GLO1234", SpeedMps: 250, AltitudeM: 10668, OriginCountry: "Brazil", VerticalRateMps: -2.5},
			{Callsign: "TAM3001", SpeedMps: 0, AltitudeM: 350, OriginCountry: "Unknown"},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, set))

	expected := "callsign,speed_kmh,altitude_m,origin_country,vertical_rate_mps\n" +
		"GLO1234,900.0,10668,Brazil,-2.5\n" +
		"TAM3001,0.0,350,Unknown,0.0\n"
	if diff := cmp.Diff(expected, sb.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV_EmptySetStillHasHeader(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, ObservationSet{Provenance: ProvenanceLive}))
	require.Equal(t, "callsign,speed_kmh,altitude_m,origin_country,vertical_rate_mps\n", sb.String())
}
