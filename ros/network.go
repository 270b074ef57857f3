package ros

import (
	"net"
	"os"
	"strings"
)

// determineHost picks the address advertised to peers and whether
// listening can be restricted to the loopback interface.
func determineHost() (string, bool) {
	if rosHostname, ok := os.LookupEnv("ROS_HOSTNAME"); ok {
		return rosHostname, rosHostname == "localhost"
	}
	if rosIP, ok := os.LookupEnv("ROS_IP"); ok {
		return rosIP, isLoopbackIP(rosIP)
	}
	if osHostname, err := os.Hostname(); err == nil && osHostname != "localhost" {
		return osHostname, false
	}
	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				return ipnet.IP.String(), false
			}
		}
	}
	return "127.0.0.1", true
}

func isLoopbackIP(ip string) bool {
	return ip == "::1" || strings.HasPrefix(ip, "127.")
}

// listenEphemeral listens on a kernel-assigned TCP port of address.
func listenEphemeral(address string) (net.Listener, string, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(address, "0"))
	if err != nil {
		return nil, "", err
	}
	_, port, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		listener.Close()
		return nil, "", err
	}
	return listener, port, nil
}
