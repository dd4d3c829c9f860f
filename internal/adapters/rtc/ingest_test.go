package rtc

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	packets []*rtp.Packet
	closed  bool
}

func (s *sliceSource) ReadRTP() (*rtp.Packet, error) {
	if len(s.packets) == 0 {
		return nil, io.EOF
	}
	pkt := s.packets[0]
	s.packets = s.packets[1:]
	return pkt, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func packets(n int) []*rtp.Packet {
	out := make([]*rtp.Packet, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &rtp.Packet{Header: rtp.Header{Version: 2, SequenceNumber: uint16(i), PayloadType: 111}, Payload: []byte{0x01}})
	}
	return out
}

func TestIngest_ForwardsUntilSourceFails(t *testing.T) {
	stream, err := NewLocalStream("local-1")
	require.NoError(t, err)
	src := &sliceSource{packets: packets(3)}

	err = Ingest(context.Background(), src, stream.Audio())
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, uint64(3), stream.Audio().Sent())
	require.Equal(t, TrackStateEnded, stream.Audio().GetState())
	require.True(t, src.closed)
}

func TestIngest_MutedPacketsAreDropped(t *testing.T) {
	stream, err := NewLocalStream("local-1")
	require.NoError(t, err)
	stream.Video().SetEnabled(false)

	err = Ingest(context.Background(), &sliceSource{packets: packets(2)}, stream.Video())
	require.True(t, errors.Is(err, io.EOF))
	require.Equal(t, uint64(0), stream.Video().Sent())
	require.Equal(t, uint64(2), stream.Video().Dropped())
}

func TestIngest_StopsOnEndedTrack(t *testing.T) {
	stream, err := NewLocalStream("local-1")
	require.NoError(t, err)
	stream.Audio().MarkEnded()

	require.NoError(t, Ingest(context.Background(), &sliceSource{packets: packets(2)}, stream.Audio()))
}

func TestUDPSource(t *testing.T) {
	src, err := ListenUDP("127.0.0.1:0")
	require.NoError(t, err)
	stream, err := NewLocalStream("local-1")
	require.NoError(t, err)

	conn, err := net.Dial("udp", src.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	raw, err := packets(1)[0].Marshal()
	require.NoError(t, err)
	_, err = conn.Write([]byte{0xff})
	require.NoError(t, err)
	_, err = conn.Write(raw)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Ingest(ctx, src, stream.Audio()) }()

	require.Eventually(t, func() bool { return stream.Audio().Sent() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ingest did not stop")
	}
	require.Equal(t, TrackStateLive, stream.Audio().GetState())
}
