package ip2location

import (
	"testing"

	"github.com/ip2location/ip2location-go/v9"
	"github.com/stretchr/testify/assert"
)

func TestFromRecord(t *testing.T) {
	rec, ok := FromRecord("8.8.8.8", ip2location.IP2Locationrecord{
		Country_short: "US",
		Region:        "California",
		City:          "Mountain View",
		Zipcode:       "94043",
		Timezone:      "-07:00",
		Latitude:      37.40599,
		Longitude:     -122.07851,
		Isp:           "This parameter is unavailable for selected data file. Please upgrade the data file.",
	})
	assert.True(t, ok)
	assert.Equal(t, "8.8.8.8", rec.IP)
	assert.Equal(t, "", rec.ISP)
	assert.Equal(t, "California", rec.Location.Region)
	assert.Equal(t, "-07:00", rec.Location.Timezone)
	assert.InDelta(t, 37.40599, rec.Location.Lat, 1e-4)

	_, ok = FromRecord("10.0.0.1", ip2location.IP2Locationrecord{Country_short: "-"})
	assert.False(t, ok)
}

func TestDB_NilHandle(t *testing.T) {
	d := &DB{}
	_, ok := d.Lookup("8.8.8.8")
	assert.False(t, ok)
	d.Close()
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open("testdata/missing.BIN")
	assert.Error(t, err)
}
