// sbdwait waits for ring alerts from the modem and drains any mobile
// terminated message queued at the gateway, dumping it to stdout.
//
// This provides an example of using RingAlerts and MailboxCheck together,
// as well as a test that the driver works with an attached modem.
//
// The modem must have ring alerts enabled (the default after Init) or no
// SBDRING will ever be seen.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"time"

	"github.com/rockblock/isbd/isbd"
	"github.com/rockblock/isbd/serial"
	"github.com/rockblock/isbd/trace"
)

func main() {
	dev := flag.String("d", "/dev/ttyUSB0", "path to modem device")
	baud := flag.Int("b", 19200, "baud rate")
	period := flag.Duration("p", 10*time.Minute, "period to wait")
	timeout := flag.Duration("t", 60*time.Second, "session timeout period")
	signal := flag.Int("s", 2, "minimum signal bars to wait for before a session attempt")
	verbose := flag.Bool("v", false, "log modem interactions")
	hex := flag.Bool("x", false, "hex dump modem responses")
	flag.Parse()

	m, err := serial.New(serial.WithPort(*dev), serial.WithBaud(*baud))
	if err != nil {
		log.Println(err)
		return
	}
	defer m.Close()
	var mio io.ReadWriter = m
	if *hex {
		mio = trace.New(m, trace.WithReadFormat("r: %v"))
	} else if *verbose {
		mio = trace.New(m)
	}
	d := isbd.New(mio)
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = d.Init(ctx)
	cancel()
	if err != nil {
		log.Println(err)
		return
	}

	ctx, cancel = context.WithTimeout(context.Background(), *period)
	defer cancel()
	go pollSignalQuality(ctx, d, *timeout)
	waitForRings(ctx, d, *timeout, *signal)
}

// pollSignalQuality polls the modem to read signal quality every minute,
// run in parallel to waitForRings to demonstrate separate goroutines
// interacting with the modem.
func pollSignalQuality(ctx context.Context, d *isbd.Modem, timeout time.Duration) {
	for {
		select {
		case <-time.After(time.Minute):
			tctx, tcancel := context.WithTimeout(ctx, timeout)
			q, err := d.SignalQuality(tctx)
			if err != nil {
				log.Println(err)
			} else {
				log.Printf("signal quality: %v\n", q)
			}
			tcancel()
		case <-ctx.Done():
			return
		}
	}
}

// waitForRings triggers a mailbox check on every ring alert and logs any
// message delivered as a result. It keeps waiting until ctx is done.
func waitForRings(ctx context.Context, d *isbd.Modem, timeout time.Duration, signal int) {
	go drainInbound(ctx, d)
	for {
		select {
		case <-ctx.Done():
			log.Println("exiting...")
			return
		case <-d.RingAlerts():
			tctx, tcancel := context.WithTimeout(ctx, timeout)
			result, err := d.MailboxCheck(tctx, isbd.SessionOptions{SignalQuality: signal})
			tcancel()
			if err != nil {
				log.Println(err)
				continue
			}
			log.Printf("mailbox check: %+v\n", result)
		}
	}
}

func drainInbound(ctx context.Context, d *isbd.Modem) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.InboundMessages():
			if !ok {
				return
			}
			log.Printf("received %d bytes: %q\n", len(msg), msg)
		}
	}
}
