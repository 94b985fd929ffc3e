// sbdinfo collects and displays information related to the modem and its
// current configuration.
//
// This serves as an example of how to interact with a modem, as well as
// providing information which may be useful for debugging a deployment.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rockblock/isbd/isbd"
	"github.com/rockblock/isbd/serial"
	"github.com/rockblock/isbd/trace"
)

var version = "undefined"

func main() {
	dev := flag.String("d", "/dev/ttyUSB0", "path to modem device")
	baud := flag.Int("b", 19200, "baud rate")
	timeout := flag.Duration("t", 5*time.Second, "command timeout period")
	verbose := flag.Bool("v", false, "log modem interactions")
	vsn := flag.Bool("version", false, "report version and exit")
	flag.Parse()
	if *vsn {
		fmt.Printf("%s %s\n", os.Args[0], version)
		os.Exit(0)
	}
	m, err := serial.New(serial.WithPort(*dev), serial.WithBaud(*baud))
	if err != nil {
		log.Println(err)
		return
	}
	defer m.Close()
	var mio io.ReadWriter = m
	if *verbose {
		mio = trace.New(m)
	}
	d := isbd.New(mio)
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	err = d.Init(ctx)
	cancel()
	if err != nil {
		log.Println(err)
		return
	}

	report := func(label string, v interface{}, err error) {
		if err != nil {
			fmt.Printf("%-24s error: %v\n", label, err)
			return
		}
		fmt.Printf("%-24s %v\n", label, v)
	}

	ctx, cancel = context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	mfr, err := d.Manufacturer(ctx)
	report("manufacturer", mfr, err)
	model, err := d.Model(ctx)
	report("model", model, err)
	rev, err := d.Revision(ctx)
	report("revision", rev, err)
	sn, err := d.SerialNumber(ctx)
	report("serial number", sn, err)
	sq, err := d.SignalQuality(ctx)
	report("signal quality", sq, err)
	regStatus, err := d.RegistrationStatus(ctx)
	report("registration status", regStatus, err)
	ring, err := d.RingIndicationStatus(ctx, false)
	report("ring indication", ring, err)
	status, err := d.Status(ctx)
	report("SBD status", status, err)
	statusX, err := d.StatusExtended(ctx)
	report("SBD status extended", statusX, err)
	netTime, err := d.LatestNetworkSystemTime(ctx)
	report("network system time", netTime, err)
}
