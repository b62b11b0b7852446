package sizing

import (
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
)

func TestComputeQuantities(t *testing.T) {
	cases := []struct {
		name           string
		totalUnits     int
		unitsPerMaster int
		bufferPer1000  int
		want           Result
	}{
		{
			name:           "buffer accrues per complete thousand",
			totalUnits:     2500,
			unitsPerMaster: 200,
			bufferPer1000:  10,
			want:           Result{TotalUnits: 2500, BufferUnits: 20, TotalUniqueQRs: 2520, MastersCount: 13},
		},
		{
			name:           "under one thousand gets no buffer",
			totalUnits:     999,
			unitsPerMaster: 100,
			bufferPer1000:  10,
			want:           Result{TotalUnits: 999, BufferUnits: 0, TotalUniqueQRs: 999, MastersCount: 10},
		},
		{
			name:           "exact thousand gets one increment",
			totalUnits:     1000,
			unitsPerMaster: 100,
			bufferPer1000:  10,
			want:           Result{TotalUnits: 1000, BufferUnits: 10, TotalUniqueQRs: 1010, MastersCount: 11},
		},
		{
			name:           "masters round up for the tail",
			totalUnits:     101,
			unitsPerMaster: 100,
			bufferPer1000:  0,
			want:           Result{TotalUnits: 101, BufferUnits: 0, TotalUniqueQRs: 101, MastersCount: 2},
		},
		{
			name:           "exact master fit does not add a carton",
			totalUnits:     200,
			unitsPerMaster: 100,
			bufferPer1000:  0,
			want:           Result{TotalUnits: 200, BufferUnits: 0, TotalUniqueQRs: 200, MastersCount: 2},
		},
		{
			name:           "zero buffer rate is allowed",
			totalUnits:     5000,
			unitsPerMaster: 250,
			bufferPer1000:  0,
			want:           Result{TotalUnits: 5000, BufferUnits: 0, TotalUniqueQRs: 5000, MastersCount: 20},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compute(tc.totalUnits, tc.unitsPerMaster, tc.bufferPer1000)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestComputeRejectsNonPositiveUnits(t *testing.T) {
	for _, units := range []int{0, -1, -2500} {
		_, err := Compute(units, 100, 10)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestComputeRejectsBadPackagingConfig(t *testing.T) {
	_, err := Compute(1000, 0, 10)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodePrecondition, typed.Code())

	_, err = Compute(1000, -5, 10)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodePrecondition, typed.Code())

	_, err = Compute(1000, 100, -1)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodePrecondition, typed.Code())
}
