// Command probe is a terminal client for poking at a running coordinator:
// it joins one event room, prints everything the room receives and lets
// the operator type chat lines. On exit it prints a per-type frame count.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"
)

type identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	addr := flag.String("addr", "localhost:8080", "coordinator host:port")
	room := flag.String("room", "", "event id to join")
	name := flag.String("name", "probe", "display name")
	flag.Parse()

	if *room == "" {
		log.Fatal("--room is required")
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	me := identity{ID: uuid.NewString(), Name: *name}
	sendControl(conn, map[string]any{"type": "join-event", "eventId": *room, "user": me})
	color.Cyan.Printf("Joined room %s as %s — type to chat, /quit to leave\n", *room, *name)

	var mu sync.Mutex
	counts := make(map[string]int)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			mu.Lock()
			counts[f.Type]++
			mu.Unlock()
			printFrame(f)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "/quit" {
			break
		}
		sendControl(conn, map[string]any{
			"type": "chat:send", "eventId": *room, "user": me, "message": line,
		})
	}

	sendControl(conn, map[string]any{"type": "leave-event", "eventId": *room, "user": me})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	<-done

	printSummary(&mu, counts)
}

func sendControl(conn *websocket.Conn, msg map[string]any) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Write failed: %v", err)
	}
}

func printFrame(f frame) {
	switch f.Type {
	case "chat:new":
		var p struct {
			User    identity `json:"user"`
			Message string   `json:"message"`
		}
		_ = json.Unmarshal(f.Payload, &p)
		color.Green.Printf("%s: %s\n", p.User.Name, p.Message)
	case "user:joined", "user:left":
		var p struct {
			User identity `json:"user"`
		}
		_ = json.Unmarshal(f.Payload, &p)
		color.Yellow.Printf("-- %s %s\n", p.User.Name, f.Type)
	case "room:count":
		var p struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(f.Payload, &p)
		color.Gray.Printf("-- %d online\n", p.Count)
	case "chat:typing":
		var p struct {
			User identity `json:"user"`
		}
		_ = json.Unmarshal(f.Payload, &p)
		color.Gray.Printf("-- %s is typing\n", p.User.Name)
	default:
		color.Magenta.Printf("[%s] %s\n", f.Type, string(f.Payload))
	}
}

func printSummary(mu *sync.Mutex, counts map[string]int) {
	mu.Lock()
	defer mu.Unlock()

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Type", "Frames"})
	for _, t := range types {
		table.Append([]string{t, fmt.Sprintf("%d", counts[t])})
	}
	table.Render()
}
