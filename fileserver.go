package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lionkov/go9p/p"
	"github.com/lionkov/go9p/p/srv"
	"github.com/nicolagi/tactbot/internal/nodes"
)

var (
	// The user and group owning all file system nodes will be the ones owning the
	// process.
	user  = p.OsUsers.Uid2User(os.Getuid())
	group = p.OsUsers.Gid2Group(os.Getgid())
)

// reportServer is a read-only 9P file tree with a directory per chat and a
// file per build.
type reportServer struct {
	mu   sync.Mutex
	root *srv.File
}

func newReportServer() *reportServer {
	root := newFile()
	_ = root.Add(nil, "root", user, group, p.DMDIR|0500, nil)
	return &reportServer{root: root}
}

// reportOps is the file system node for the report of a single build.
type reportOps struct {
	contents *nodes.Report
}

// Stat implements srv.FStatOp.
func (r *reportOps) Stat(fid *srv.FFid) error {
	fid.F.Length = uint64(r.contents.Size())
	return nil
}

// Read implements srv.FReadOp.
func (r *reportOps) Read(_ *srv.FFid, buf []byte, offset uint64) (int, error) {
	n, err := r.contents.ReadAt(buf, int64(offset))
	// In 9P, we don't answer with Rerror when we get to EOF!
	if err == io.EOF {
		err = nil
	}
	return n, err
}

// add publishes the report of a saved record.
func (s *reportServer) add(r *buildRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := string(id2key(r.ChatID))
	chat := s.root.Find(name)
	if chat == nil {
		chat = newFile()
		if err := chat.Add(s.root, name, user, group, p.DMDIR|0500, nil); err != nil {
			slog.Error("Could not add chat directory",
				slog.String("name", name),
				slog.Any("error", err))
			return
		}
		// Updated by the reports below.
		chat.Mtime = 0
		chat.Atime = 0
	}
	f := newFile()
	ops := &reportOps{contents: nodes.NewReport(r.report())}
	if err := f.Add(chat, r.reportName(), user, group, 0400, ops); err != nil {
		slog.Error("Could not add report",
			slog.String("name", r.reportName()),
			slog.Any("error", err))
		return
	}
	// These metadata changes need to happen after (*srv.File).Add, lest they be
	// overwritten.
	f.Mtime = uint32(r.When.Unix())
	f.Atime = f.Mtime
	if chat.Mtime < f.Mtime {
		chat.Mtime = f.Mtime
	}
	if chat.Atime < f.Atime {
		chat.Atime = f.Atime
	}
}

// addHistory publishes all the records saved so far.
func (s *reportServer) addHistory(h *history) error {
	return h.forEach(func(r *buildRecord) error {
		s.add(r)
		return nil
	})
}

// listen is a blocking call.
func (s *reportServer) listen(addr string) error {
	fsrv := srv.NewFileSrv(s.root)
	fsrv.Dotu = false
	fsrv.Start(fsrv)
	fsrv.Id = "tactbot"
	return fsrv.StartNetListener("tcp", addr)
}

// Placeholder/extension point.
func newFile() *srv.File {
	return &srv.File{}
}
