package draft

import "context"

var SQLiteDSN = sqliteDSN

// SQLitePragma reads pragma on n connections held open at the same time.
func SQLitePragma(ctx context.Context, s *SQLiteStore, pragma string, n int) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		var value string
		if err := conn.QueryRowContext(ctx, "PRAGMA "+pragma).Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}
