package main

import (
	"flag"
	"log"
	"reflect"
	"strings"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/axpose/pkg/bridge"
	"github.com/robotalks/axpose/pkg/bridge/mqtt"
	"github.com/robotalks/axpose/pkg/bridge/msgs"
	"github.com/robotalks/axpose/pkg/env"
)

func init() {
	env.SetupFlags()
}

func decode(topic string, payload []byte) (proto.Message, error) {
	levels := strings.Split(topic, "/")
	var msg proto.Message
	switch {
	case len(levels) >= 2 && levels[len(levels)-1] == "meta":
		msg = &msgs.BridgeInfo{}
	case len(levels) >= 3 && levels[len(levels)-2] == "cmd":
		msg = bridge.NewRequest(levels[len(levels)-1])
	case len(levels) >= 3 && levels[len(levels)-2] == "reply":
		msg = bridge.NewReply(levels[len(levels)-1])
	}
	if msg == nil {
		return nil, nil
	}
	return msg, proto.Unmarshal(payload, msg)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	broker, err := mqtt.Dial(env.Default().MQTTURL, "axmon-"+env.Default().BridgeID)
	if err != nil {
		log.Fatalln(err)
	}
	err = broker.Handle("#", func(topic string, payload []byte) {
		msg, err := decode(topic, payload)
		if err != nil {
			log.Printf("%s: decode error: %v", topic, err)
			return
		}
		if msg == nil {
			log.Printf("%s: %d bytes", topic, len(payload))
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), msg.String())
	})
	if err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
