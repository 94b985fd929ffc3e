// sbdsend sends a short burst data message over the Iridium network.
//
// This provides an example of using SendTextMessage, as well as a test
// that the driver works with an attached modem.
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
	msg := flag.String("m", "hello from sbdsend", "the message to send")
	timeout := flag.Duration("t", 60*time.Second, "session timeout period")
	signal := flag.Int("s", 2, "minimum signal bars to wait for before a session attempt")
	compressed := flag.Bool("c", false, "compress the message before sending")
	verbose := flag.Bool("v", false, "log modem interactions")
	hex := flag.Bool("x", false, "hex dump modem responses")
	flag.Parse()

	m, err := serial.New(serial.WithPort(*dev), serial.WithBaud(*baud))
	if err != nil {
		log.Fatal(err)
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
		log.Fatal(err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	result, err := d.SendTextMessage(ctx, *msg, isbd.TextOptions{
		SessionOptions: isbd.SessionOptions{SignalQuality: *signal},
		Compressed:     *compressed,
	})
	log.Printf("%+v %v\n", result, err)
}
