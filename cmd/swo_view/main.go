package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"swogen/internal/common"
	"swogen/internal/viewer"
)

func parsePorts(s string) ([]int, error) {
	var ports []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		p, err := strconv.Atoi(f)
		if err != nil || p < 0 || p > 31 {
			return nil, fmt.Errorf("bad stimulus port %q", f)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func main() {
	in := flag.String("in", "-", "SWO capture file written by OpenOCD, - for stdin")
	ports := flag.String("ports", "0", "Comma separated ITM stimulus ports to print")
	waitSync := flag.Bool("sync", false, "Wait for an ITM async packet before decoding")
	listPkts := flag.Bool("pkts", false, "List every ITM packet instead of the stimulus text")
	raw := flag.Bool("raw", false, "With -pkts, print the packet bytes")
	verbose := flag.Bool("v", false, "Log decode information to stderr")

	flag.Parse()

	level := common.SeverityWarning
	if *verbose {
		level = common.SeverityInfo
	}
	logger := common.NewStdLogger(level)

	portList, err := parsePorts(*ports)
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}

	cfg := viewer.Config{
		InputFile:    *in,
		Ports:        portList,
		WaitSync:     *waitSync,
		ListPackets:  *listPkts,
		ShowRaw:      *raw,
		OutputWriter: os.Stdout,
		Logger:       logger,
	}

	if _, err := viewer.Run(cfg); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
