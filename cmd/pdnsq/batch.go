package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dnsdb/pdnsq/pkg/backend"
	"github.com/dnsdb/pdnsq/pkg/query"
	"github.com/dnsdb/pdnsq/pkg/types"
)

// parseBatch reads one query per line. Blank lines and #-comments are
// skipped. Each remaining line carries the common fence, limit and verb
// from the command line.
func parseBatch(in io.Reader, common query.Spec) ([]query.Spec, error) {
	var specs []query.Spec
	scan := bufio.NewScanner(in)
	lineNo := 0
	for scan.Scan() {
		lineNo++
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		spec, err := parseBatchLine(line, common)
		if err != nil {
			return nil, fmt.Errorf("batch line %d: %w", lineNo, err)
		}
		specs = append(specs, spec)
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return specs, nil
}

// parseBatchLine parses one entry of the form
//
//	rrset/name/OWNER[/RRTYPE[/BAILIWICK]]
//	rdata/name/NAME[/RRTYPE]
//	rdata/ip/ADDR[,PFXLEN]
//	rdata/raw/HEX[/RRTYPE]
func parseBatchLine(line string, common query.Spec) (query.Spec, error) {
	spec := common
	fields := strings.Split(line, "/")
	if len(fields) < 3 {
		return spec, types.UsageErrorf("unparseable query %q", line)
	}

	kind := fields[0] + "/" + fields[1]
	rest := fields[2:]
	switch kind {
	case "rrset/name":
		spec.Mode = backend.RRSetName
	case "rdata/name":
		spec.Mode = backend.RdataName
	case "rdata/ip":
		spec.Mode = backend.RdataIP
	case "rdata/raw":
		spec.Mode = backend.RdataRaw
	default:
		return spec, types.UsageErrorf("unparseable query kind %q", kind)
	}

	spec.Thing = rest[0]
	if spec.Thing == "" {
		return spec, types.UsageErrorf("query %q has nothing to look up", line)
	}
	if len(rest) > 1 && rest[1] != "" {
		spec.RRTypeList = rest[1]
	}
	if len(rest) > 2 {
		if spec.Mode != backend.RRSetName {
			return spec, types.UsageErrorf("bailiwick only applies to rrset queries: %q", line)
		}
		spec.Bailiwick = strings.Join(rest[2:], "/")
	}
	return spec, nil
}
