package modem

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestDecodeReply(t *testing.T) {
	is := is.New(t)

	r, err := decodeReply(cmdLogin, []byte("\r\n  {\"result\":0,\"modem_main_state\":\"modem_init_complete\",\"x\":null}\n"))
	is.NoErr(err)
	is.Equal(r.Result(), "0") // numeric result reads as text
	is.Equal(r.Get("modem_main_state"), "modem_init_complete")
	is.Equal(r.Get("x"), "")
	is.Equal(r.Get("missing"), "")
	is.Equal(r.Raw(), `{"result":0,"modem_main_state":"modem_init_complete","x":null}`)
}

func TestDecodeReplyMalformed(t *testing.T) {
	for _, body := range []string{"", "   ", "<html>", `["success"]`, `"success"`, `{"result":`} {
		t.Run(body, func(t *testing.T) {
			is := is.New(t)

			_, err := decodeReply(cmdReboot, []byte(body))
			var pe *ProtocolError
			is.True(errors.As(err, &pe))
			is.Equal(pe.Command, cmdReboot)
		})
	}
}

func TestReplyExpect(t *testing.T) {
	is := is.New(t)

	r, err := decodeReply(cmdSetWifi, []byte(`{"result":"failure"}`))
	is.NoErr(err)

	err = r.Expect(cmdSetWifi, "success")
	var de *DeviceError
	is.True(errors.As(err, &de))
	is.Equal(de.Result, "failure")
	is.Equal(de.Payload, `{"result":"failure"}`)

	ok, err := decodeReply(cmdConnectWAN, []byte(`{"result":"success_ok"}`))
	is.NoErr(err)
	is.True(ok.Expect(cmdConnectWAN, "success") != nil)
	is.NoErr(ok.ExpectContains(cmdConnectWAN, "success"))
}

func TestReplyMarshalJSON(t *testing.T) {
	is := is.New(t)

	r, err := decodeReply(cmdDDNS, []byte(` {"result":"success"} `))
	is.NoErr(err)

	b, err := json.Marshal(map[string]Reply{"reply": r, "empty": {}})
	is.NoErr(err)
	is.Equal(string(b), `{"empty":{},"reply":{"result":"success"}}`)
}
