// hostplan-helper — privileged side of the hostplan protocol
//
// Usage:
//
//	hostplan-helper              Read one JSON request from stdin,
//	                             execute it, write one JSON reply to
//	                             stdout
//	hostplan-helper --version    Print version information
//
// The helper is spawned by hostplan (directly or through sudo) for each
// operation; it is not meant to be driven by hand. The reply is always
// a single TaskResult object, with errors carried inside it rather than
// through the exit status where possible.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hostplan/hostplan/pkg/helper"
	"github.com/hostplan/hostplan/pkg/netplan"
	"github.com/hostplan/hostplan/pkg/nic"
	"github.com/hostplan/hostplan/pkg/service"
	"github.com/hostplan/hostplan/pkg/sysconf"
	"github.com/hostplan/hostplan/pkg/util"
	"github.com/hostplan/hostplan/pkg/version"
)

func main() {
	if len(os.Args) == 2 && os.Args[1] == "--version" {
		fmt.Printf("hostplan-helper %s (%s)\n", version.Version, version.GitCommit)
		os.Exit(0)
	}

	var req helper.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeReply(helper.ErrResult(fmt.Errorf("reading request: %v", err)))
		os.Exit(1)
	}

	h, err := newHostHandler()
	if err != nil {
		writeReply(helper.ErrResult(err))
		os.Exit(1)
	}

	writeReply(h.handle(&req))
}

// newHostHandler wires the handler to the real host: the netplan
// directory, netlink, the system D-Bus, and the sshd/ntp files.
func newHostHandler() (*handler, error) {
	svc, err := service.Connect(context.Background(), nil)
	if err != nil {
		return nil, err
	}
	return &handler{
		interfaces: netplan.NewManager(netplan.DefaultDir, nic.NewManager()),
		sshd:       sysconf.NewSshd(svc),
		ntp:        sysconf.NewNtp(svc),
		services:   svc,
	}, nil
}

func writeReply(result *helper.TaskResult) {
	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		util.Errorf("writing reply: %v", err)
	}
}
