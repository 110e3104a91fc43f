// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package store

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// FetchPrebakedHeaders downloads a pre-baked header file from url and
// writes it to path, for first-run bootstrap. Failure of any kind
// (network, HTTP status, disk) is recoverable: the caller should
// proceed with whatever is already on disk (typically nothing, an
// empty file), exactly as the original client's init_headers_file
// does. The error is returned only so the caller can log it; it is
// never fatal to the subsystem.
func FetchPrebakedHeaders(url, path string) error {
	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store: fetching prebaked headers: unexpected status %s", resp.Status)
	}

	tmp := path + ".download"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
