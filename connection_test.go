package h2engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionHandshake(t *testing.T) {
	client := NewConnection(NewConfig(RoleClient))
	server := NewConnection(NewConfig(RoleServer))

	clientOut := client.InitiateConnection()
	require.NotEmpty(t, clientOut, "client must emit the preface and initial SETTINGS")

	_, err := server.ReceiveData(clientOut)
	require.NoError(t, err)

	serverOut := server.DataToSend()
	require.NotEmpty(t, serverOut, "server must ACK the client's SETTINGS")
}

func TestConnectionRequestResponseRoundTrip(t *testing.T) {
	client := NewConnection(NewConfig(RoleClient))
	server := NewConnection(NewConfig(RoleServer))

	_, err := server.ReceiveData(client.InitiateConnection())
	require.NoError(t, err)
	_, err = client.ReceiveData(server.DataToSend())
	require.NoError(t, err)

	reqFields := fieldsOf(
		[2]string{":method", "GET"},
		[2]string{":scheme", "https"},
		[2]string{":path", "/"},
		[2]string{":authority", "example.com"},
	)
	err = client.SendHeaders(1, reqFields, true)
	require.NoError(t, err)

	events, err := server.ReceiveData(client.DataToSend())
	require.NoError(t, err)
	require.Len(t, events, 1)

	req, ok := events[0].(*RequestReceived)
	require.True(t, ok, "expected a RequestReceived event, got %T", events[0])
	require.Equal(t, uint32(1), req.StreamID)
	require.NotNil(t, req.StreamEnded)
	require.Equal(t, "GET", headerValue(req.Headers, ":method"))

	respFields := fieldsOf([2]string{":status", "200"})
	err = server.SendHeaders(1, respFields, true)
	require.NoError(t, err)

	events, err = client.ReceiveData(server.DataToSend())
	require.NoError(t, err)
	require.Len(t, events, 1)

	resp, ok := events[0].(*ResponseReceived)
	require.True(t, ok, "expected a ResponseReceived event, got %T", events[0])
	require.Equal(t, "200", headerValue(resp.Headers, ":status"))
}

func TestConnectionDataFlowControl(t *testing.T) {
	client := NewConnection(NewConfig(RoleClient))
	server := NewConnection(NewConfig(RoleServer))

	_, err := server.ReceiveData(client.InitiateConnection())
	require.NoError(t, err)
	_, err = client.ReceiveData(server.DataToSend())
	require.NoError(t, err)

	reqFields := fieldsOf(
		[2]string{":method", "POST"}, [2]string{":scheme", "https"},
		[2]string{":path", "/"}, [2]string{":authority", "example.com"},
	)
	require.NoError(t, client.SendHeaders(1, reqFields, false))
	require.NoError(t, client.SendData(1, []byte("payload"), true))

	events, err := server.ReceiveData(client.DataToSend())
	require.NoError(t, err)
	require.Len(t, events, 2)

	data, ok := events[1].(*DataReceived)
	require.True(t, ok)
	require.Equal(t, "payload", string(data.Data))
	require.NotNil(t, data.StreamEnded)
}

func TestConnectionResetStream(t *testing.T) {
	client := NewConnection(NewConfig(RoleClient))
	server := NewConnection(NewConfig(RoleServer))

	_, err := server.ReceiveData(client.InitiateConnection())
	require.NoError(t, err)
	_, err = client.ReceiveData(server.DataToSend())
	require.NoError(t, err)

	reqFields := fieldsOf(
		[2]string{":method", "GET"}, [2]string{":scheme", "https"},
		[2]string{":path", "/"}, [2]string{":authority", "example.com"},
	)
	require.NoError(t, client.SendHeaders(1, reqFields, false))
	_, err = server.ReceiveData(client.DataToSend())
	require.NoError(t, err)

	require.NoError(t, client.ResetStream(1, ErrCodeCancel))

	events, err := server.ReceiveData(client.DataToSend())
	require.NoError(t, err)
	require.Len(t, events, 1)

	reset, ok := events[0].(*StreamReset)
	require.True(t, ok)
	require.Equal(t, ErrCodeCancel, reset.ErrorCode)
}

func TestConnectionPingRoundTrip(t *testing.T) {
	client := NewConnection(NewConfig(RoleClient))
	server := NewConnection(NewConfig(RoleServer))

	_, err := server.ReceiveData(client.InitiateConnection())
	require.NoError(t, err)
	_, err = client.ReceiveData(server.DataToSend())
	require.NoError(t, err)

	payload := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	client.Ping(payload)

	events, err := server.ReceiveData(client.DataToSend())
	require.NoError(t, err)
	require.Len(t, events, 1)
	_, ok := events[0].(*PingReceived)
	require.True(t, ok)

	events, err = client.ReceiveData(server.DataToSend())
	require.NoError(t, err)
	require.Len(t, events, 1)
	ack, ok := events[0].(*PingAckReceived)
	require.True(t, ok)
	require.Equal(t, payload, ack.Data)
}
