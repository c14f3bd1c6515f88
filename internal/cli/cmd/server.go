package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Control server processes",
}

var serverStartCmd = &cobra.Command{
	Use:   "start [id]",
	Short: "Start a server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.StartServer(args[0]); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		fmt.Println("Start command sent.")
	},
}

var serverStopCmd = &cobra.Command{
	Use:   "stop [id]",
	Short: "Stop a server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.StopServer(args[0]); err != nil {
			log.Fatalf("Error stopping server: %v", err)
		}
		fmt.Println("Stop command sent.")
	},
}

var serverStatusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Show server status and players",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state, err := Client.ServerStatus(args[0])
		if err != nil {
			log.Fatalf("Error fetching status: %v", err)
		}

		fmt.Printf("Status:  %s\n", state.Status)
		if state.Status == "RUNNING" {
			fmt.Printf("Uptime:  %s\n", (time.Duration(state.Uptime) * time.Second).String())
		}
		fmt.Printf("Players: %d\n", state.PlayerCount)
		for _, name := range state.Players {
			fmt.Printf("  - %s\n", name)
		}

		if stats, err := Client.ServerStats(args[0]); err == nil {
			fmt.Printf("CPU:     %.1f%%\n", stats.CPU)
			fmt.Printf("Memory:  %d MB\n", stats.RSS/1024/1024)
		}
	},
}

var serverCmdCmd = &cobra.Command{
	Use:   "cmd [id] [command...]",
	Short: "Send a console command to a running server",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		command := ""
		for i, a := range args[1:] {
			if i > 0 {
				command += " "
			}
			command += a
		}
		if err := Client.SendCommand(args[0], command); err != nil {
			log.Fatalf("Error sending command: %v", err)
		}
		fmt.Println("Command sent.")
	},
}

var serverDownloadCmd = &cobra.Command{
	Use:   "download [id]",
	Short: "Download server files into the profile directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := Client.Download(args[0]); err != nil {
			log.Fatalf("Error starting download: %v", err)
		}
		fmt.Println("Download started. Follow progress with `server logs`.")
	},
}

var serverLogsCmd = &cobra.Command{
	Use:   "logs [id]",
	Short: "Follow the server console, sending stdin lines as commands",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		followLogs(args[0])
	},
}

// followLogs streams the console hub to stdout until interrupted. Lines
// typed on stdin go back as console commands.
func followLogs(id string) {
	wsURL, err := Client.GetWebSocketURL(fmt.Sprintf("/ws/profiles/%s/console", id))
	if err != nil {
		log.Fatalf("Error building websocket URL: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("Error connecting to console: %v", err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Println(string(message))
		}
	}()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				return
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func init() {
	serverCmd.AddCommand(serverStartCmd, serverStopCmd, serverStatusCmd, serverCmdCmd, serverDownloadCmd, serverLogsCmd)
	RootCmd.AddCommand(serverCmd)
}
