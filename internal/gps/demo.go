package gps

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	gonmea "github.com/adrianmo/go-nmea"
)

// demoSatellites are the PRNs reported by the demo receiver.
var demoSatellites = []int{2, 4, 5, 9, 12, 13, 17, 20, 24, 29}

// DemoSource generates simulated NMEA sentences for a vehicle driving in
// a circle, with valid checksums.
type DemoSource struct {
	mu sync.Mutex
	t  float64

	Start     time.Time
	CenterLat float64
	CenterLon float64
	Radius    float64 // degrees
	Epochs    int     // epochs returned by Lines
}

func NewDemoSource() *DemoSource {
	return &DemoSource{
		Start:     time.Now().UTC().Truncate(time.Second),
		CenterLat: 39.9334, // Ankara
		CenterLon: 32.8597,
		Radius:    0.005, // ~500m
		Epochs:    60,
	}
}

func (d *DemoSource) Name() string { return "demo (simulated)" }

// Lines returns d.Epochs epochs of sentences.
func (d *DemoSource) Lines() ([]string, error) {
	var out []string
	for i := 0; i < d.Epochs; i++ {
		out = append(out, d.Next()...)
	}
	return out, nil
}

// Next advances one second and returns one epoch: GGA, GLL, GSA, RMC,
// VTG and a GSV group.
func (d *DemoSource) Next() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.t++

	lat := d.CenterLat + d.Radius*math.Sin(d.t*0.1)
	lon := d.CenterLon + d.Radius*math.Cos(d.t*0.1)
	alt := 850 + 5*math.Sin(d.t*0.05)
	course := math.Mod(360-d.t*0.1*180/math.Pi+360*100, 360)
	knots := 30 + 5*math.Sin(d.t*0.3)

	now := d.Start.Add(time.Duration(d.t) * time.Second)
	hms := now.Format("150405") + ".00"
	date := now.Format("020106")
	latS, latH := formatLat(lat)
	lonS, lonH := formatLon(lon)

	used := demoSatellites[:8]
	ids := make([]string, 12)
	for i, prn := range used {
		ids[i] = fmt.Sprintf("%02d", prn)
	}

	lines := []string{
		frame(fmt.Sprintf("GPGGA,%s,%s,%s,%s,%s,1,%02d,0.9,%.1f,M,46.9,M,,", hms, latS, latH, lonS, lonH, len(used), alt)),
		frame(fmt.Sprintf("GPGLL,%s,%s,%s,%s,%s,A,A", latS, latH, lonS, lonH, hms)),
		frame(fmt.Sprintf("GPGSA,A,3,%s,1.6,0.9,1.3", strings.Join(ids, ","))),
		frame(fmt.Sprintf("GPRMC,%s,A,%s,%s,%s,%s,%.1f,%.1f,%s,,,A", hms, latS, latH, lonS, lonH, knots, course, date)),
		frame(fmt.Sprintf("GPVTG,%.1f,T,,M,%.1f,N,%.1f,K,A", course, knots, knots*1.852)),
	}
	return append(lines, d.gsvGroup()...)
}

// gsvGroup reports demoSatellites four per sentence.
func (d *DemoSource) gsvGroup() []string {
	total := (len(demoSatellites) + 3) / 4
	var out []string
	for n := 0; n < total; n++ {
		var b strings.Builder
		fmt.Fprintf(&b, "GPGSV,%d,%d,%02d", total, n+1, len(demoSatellites))
		for i := n * 4; i < len(demoSatellites) && i < (n+1)*4; i++ {
			prn := demoSatellites[i]
			elev := 10 + (prn*7)%80
			az := int(math.Mod(float64(prn*36)+d.t, 360))
			snr := 20 + (prn*3)%30
			fmt.Fprintf(&b, ",%02d,%02d,%03d,%02d", prn, elev, az, snr)
		}
		out = append(out, frame(b.String()))
	}
	return out
}

func frame(payload string) string {
	return "$" + payload + "*" + gonmea.Checksum(payload)
}

func formatLat(v float64) (string, string) {
	hemi := "N"
	if v < 0 {
		hemi, v = "S", -v
	}
	deg, min := splitDegrees(v)
	return fmt.Sprintf("%02d%07.4f", deg, min), hemi
}

func formatLon(v float64) (string, string) {
	hemi := "E"
	if v < 0 {
		hemi, v = "W", -v
	}
	deg, min := splitDegrees(v)
	return fmt.Sprintf("%03d%07.4f", deg, min), hemi
}

func splitDegrees(v float64) (int, float64) {
	deg := math.Floor(v)
	min := math.Round((v-deg)*60*10000) / 10000
	if min >= 60 {
		deg++
		min -= 60
	}
	return int(deg), min
}
