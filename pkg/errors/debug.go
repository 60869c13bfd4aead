package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	GatewayStatus   int    `json:"gateway_status,omitempty"`
	GatewayEndpoint string `json:"gateway_endpoint,omitempty"`
	GatewayMessage  string `json:"gateway_message,omitempty"`
}

// gatewayError is implemented by the document gateway transport error so the
// dump can surface upstream status without importing the client package.
type gatewayError interface {
	GatewayStatus() int
	GatewayEndpoint() string
	GatewayMessage() string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var gw gatewayError
	if errors.As(err, &gw) {
		d.GatewayStatus = gw.GatewayStatus()
		d.GatewayEndpoint = gw.GatewayEndpoint()
		d.GatewayMessage = gw.GatewayMessage()
	}

	return d
}
