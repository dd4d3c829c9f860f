package rtc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/pion/rtp"
	"github.com/rs/zerolog/log"
)

const maxPacketSize = 1500

// PacketSource yields RTP packets for a local track, typically an encoder
// pushing to a UDP port.
type PacketSource interface {
	ReadRTP() (*rtp.Packet, error)
	Close() error
}

// UDPSource reads RTP packets from a UDP socket.
type UDPSource struct {
	conn net.PacketConn
	buf  []byte
}

func ListenUDP(addr string) (*UDPSource, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen rtp %s: %w", addr, err)
	}
	return &UDPSource{conn: conn, buf: make([]byte, maxPacketSize)}, nil
}

func (s *UDPSource) Addr() net.Addr { return s.conn.LocalAddr() }

// ReadRTP returns the next well formed packet. Malformed datagrams are skipped.
func (s *UDPSource) ReadRTP() (*rtp.Packet, error) {
	for {
		n, _, err := s.conn.ReadFrom(s.buf)
		if err != nil {
			return nil, err
		}
		pkt := &rtp.Packet{}
		if err := pkt.Unmarshal(s.buf[:n]); err != nil {
			log.Debug().Err(err).Str("module", "rtc").Msg("malformed rtp datagram skipped")
			continue
		}
		return pkt, nil
	}
}

func (s *UDPSource) Close() error { return s.conn.Close() }

// Ingest forwards packets from src into track until ctx is done or src
// fails. The source is closed on return; a failed source ends the track.
func Ingest(ctx context.Context, src PacketSource, track *LocalTrack) error {
	logger := log.With().Str("module", "rtc").Str("kind", string(track.Kind())).Logger()
	stop := context.AfterFunc(ctx, func() { _ = src.Close() })
	defer func() {
		stop()
		_ = src.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("ingest ctx done")
			return nil
		default:
		}
		pkt, err := src.ReadRTP()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error().Err(err).Msg("ingest read RTP error, ending track")
			track.MarkEnded()
			return fmt.Errorf("ingest %s: %w", track.Kind(), err)
		}
		if err := track.WriteRTP(pkt); err != nil {
			if errors.Is(err, ErrTrackEnded) {
				logger.Info().Msg("track ended, stopping ingest")
				return nil
			}
			logger.Warn().Err(err).Uint16("seq", pkt.SequenceNumber).Msg("ingest write RTP error")
		}
	}
}
