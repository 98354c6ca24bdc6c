// observe: command-line observer client
// Subscribes to a running server and prints state updates as they arrive.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/smartsession/go-smartsession/pkg/state"
)

var addr = flag.String("addr", "localhost:8000", "server address")

func main() {
	flag.Parse()

	url := fmt.Sprintf("ws://%s/ws/observer", *addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("observing %s\n", url)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				fmt.Fprintf(os.Stderr, "read: %v\n", err)
				return
			}
			printUpdate(data)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-done:
	case <-interrupt:
		// Clean close handshake, then give the server a moment to reply.
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func printUpdate(data []byte) {
	var update state.Update
	if err := json.Unmarshal(data, &update); err != nil {
		fmt.Printf("?? %s\n", data)
		return
	}

	at := time.UnixMilli(update.Timestamp).Format("15:04:05.000")
	line := fmt.Sprintf("%s  %-13s", at, update.State)
	if d := update.Details; d != nil {
		line += fmt.Sprintf("  faces=%d gaze=%s", d.FaceCount, d.GazeDirection)
		if d.ConfusionDetected {
			line += fmt.Sprintf("  confusion=%v", d.ConfusionReasons)
		}
	}
	fmt.Println(line)
}
