package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/zmbq/butbul-halacha-ingest/pkg/repo"
)

// Store provides graph operations on top of the generic Neo4j repository.
type Store struct {
	driver neo4j.DriverWithContext
	videos *repo.Neo4jRepo[Video, string]
}

// New creates a Store on the given driver.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{
		driver: driver,
		videos: newVideoRepo(driver),
	}
}

func newVideoRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[Video, string] {
	return repo.NewNeo4jRepo[Video, string](
		driver,
		"Video",
		videoToMap,
		func(r *neo4j.Record) (Video, error) {
			node, _, err := neo4j.GetRecordValue[dbtype.Node](r, "n")
			if err != nil {
				return Video{}, err
			}
			return videoFromProps(node.Props), nil
		},
		repo.WithIDKey[Video, string]("video_id"),
	)
}

// GetVideo returns one video by ID.
func (s *Store) GetVideo(ctx context.Context, videoID string) (Video, error) {
	return s.videos.Get(ctx, videoID)
}

// CountVideos returns the number of video nodes.
func (s *Store) CountVideos(ctx context.Context) (int64, error) {
	return s.videos.Count(ctx)
}

// SaveVideos merges video nodes in one transaction. Metadata properties
// already on a node are preserved; discovery only refreshes the listing
// fields.
func (s *Store) SaveVideos(ctx context.Context, videos []Video) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		cypher := `MERGE (v:Video {video_id: $video_id})
			SET v.url = $url, v.title = $title, v.description = $description,
			    v.published_at = $published_at, v.duration_seconds = $duration_seconds`
		for _, v := range videos {
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"video_id":         v.VideoID,
				"url":              v.URL,
				"title":            v.Title,
				"description":      v.Description,
				"published_at":     v.PublishedAt.UTC().Format(time.RFC3339),
				"duration_seconds": v.DurationSeconds,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Videos lists every video ordered by publish time.
func (s *Store) Videos(ctx context.Context) ([]Video, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		`MATCH (v:Video) RETURN v ORDER BY v.published_at`, nil)
	if err != nil {
		return nil, err
	}
	return collectVideos(ctx, result)
}

// SetMetadata writes the extracted Hebrew date fields onto a video node.
// Empty fields are written as empty strings so a re-run can clear stale
// values.
func (s *Store) SetMetadata(ctx context.Context, videoID, hebrewDate, dayOfWeek, subject string, civilDate *time.Time) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	params := map[string]any{
		"video_id":    videoID,
		"hebrew_date": hebrewDate,
		"day_of_week": dayOfWeek,
		"subject":     subject,
		"civil_date":  nil,
	}
	if civilDate != nil {
		params["civil_date"] = civilDate.Format("2006-01-02")
	}
	result, err := sess.Run(ctx,
		`MATCH (v:Video {video_id: $video_id})
		 SET v.hebrew_date = $hebrew_date, v.day_of_week = $day_of_week,
		     v.subject = $subject, v.civil_date = $civil_date
		 RETURN v.video_id`, params)
	if err != nil {
		return err
	}
	if !result.Next(ctx) {
		return fmt.Errorf("video %s not found", videoID)
	}
	return nil
}

// ReplaceSegments replaces a video's transcript segments in one transaction.
// Existing segments are removed first so refetching a transcript is
// idempotent.
func (s *Store) ReplaceSegments(ctx context.Context, videoID string, segments []Segment) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx,
			`MATCH (:Video {video_id: $video_id})-[:HAS_SEGMENT]->(s:Segment)
			 DETACH DELETE s`,
			map[string]any{"video_id": videoID}); err != nil {
			return nil, err
		}
		cypher := `MATCH (v:Video {video_id: $video_id})
			CREATE (v)-[:HAS_SEGMENT]->(:Segment {
				video_id: $video_id, idx: $idx,
				start: $start, duration: $duration, end: $end, text: $text})`
		for _, seg := range segments {
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"video_id": videoID,
				"idx":      seg.Index,
				"start":    seg.Start,
				"duration": seg.Duration,
				"end":      seg.End,
				"text":     seg.Text,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Segments returns a video's transcript segments ordered by index.
func (s *Store) Segments(ctx context.Context, videoID string) ([]Segment, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		`MATCH (:Video {video_id: $video_id})-[:HAS_SEGMENT]->(s:Segment)
		 RETURN s ORDER BY s.idx`,
		map[string]any{"video_id": videoID})
	if err != nil {
		return nil, err
	}

	var segments []Segment
	for result.Next(ctx) {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "s")
		if err != nil {
			return nil, err
		}
		segments = append(segments, segmentFromProps(node.Props))
	}
	return segments, nil
}

// VideoIDsWithoutSegments lists videos that have no transcript yet, ordered
// by publish time.
func (s *Store) VideoIDsWithoutSegments(ctx context.Context) ([]string, error) {
	return s.collectIDs(ctx,
		`MATCH (v:Video) WHERE NOT (v)-[:HAS_SEGMENT]->(:Segment)
		 RETURN v.video_id AS id ORDER BY v.published_at`)
}

// VideoIDsWithSegments lists videos that have a transcript, ordered by
// publish time.
func (s *Store) VideoIDsWithSegments(ctx context.Context) ([]string, error) {
	return s.collectIDs(ctx,
		`MATCH (v:Video) WHERE (v)-[:HAS_SEGMENT]->(:Segment)
		 RETURN v.video_id AS id ORDER BY v.published_at`)
}

// VideoIDsWithoutChunks lists transcribed videos that have no chunks yet.
func (s *Store) VideoIDsWithoutChunks(ctx context.Context) ([]string, error) {
	return s.collectIDs(ctx,
		`MATCH (v:Video) WHERE (v)-[:HAS_SEGMENT]->(:Segment)
		   AND NOT (v)-[:HAS_CHUNK]->(:Chunk)
		 RETURN v.video_id AS id ORDER BY v.published_at`)
}

func (s *Store) collectIDs(ctx context.Context, cypher string) ([]string, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	var ids []string
	for result.Next(ctx) {
		if id, ok := result.Record().Get("id"); ok {
			if str, ok := id.(string); ok {
				ids = append(ids, str)
			}
		}
	}
	return ids, nil
}

// SaveChunks merges a video's chunks in one transaction. A chunk is keyed by
// its segment range, so re-chunking an unchanged transcript rewrites the same
// nodes.
func (s *Store) SaveChunks(ctx context.Context, videoID string, chunks []Chunk) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		cypher := `MATCH (v:Video {video_id: $video_id})
			MERGE (v)-[:HAS_CHUNK]->(c:Chunk {
				video_id: $video_id, first_idx: $first_idx, last_idx: $last_idx})
			SET c.start = $start, c.end = $end, c.text = $text`
		for _, c := range chunks {
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"video_id":  videoID,
				"first_idx": c.FirstIndex,
				"last_idx":  c.LastIndex,
				"start":     c.Start,
				"end":       c.End,
				"text":      c.Text,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Chunks returns a video's chunks ordered by their first segment.
func (s *Store) Chunks(ctx context.Context, videoID string) ([]Chunk, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		`MATCH (:Video {video_id: $video_id})-[:HAS_CHUNK]->(c:Chunk)
		 RETURN c ORDER BY c.first_idx`,
		map[string]any{"video_id": videoID})
	if err != nil {
		return nil, err
	}
	return collectChunks(ctx, result)
}

// AllChunks returns every chunk, ordered by video then first segment.
func (s *Store) AllChunks(ctx context.Context) ([]Chunk, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		`MATCH (c:Chunk) RETURN c ORDER BY c.video_id, c.first_idx`, nil)
	if err != nil {
		return nil, err
	}
	return collectChunks(ctx, result)
}

// ClearChunks deletes a video's chunks, or every chunk when videoID is empty.
func (s *Store) ClearChunks(ctx context.Context, videoID string) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MATCH (c:Chunk) DETACH DELETE c`
	params := map[string]any{}
	if videoID != "" {
		cypher = `MATCH (:Video {video_id: $video_id})-[:HAS_CHUNK]->(c:Chunk) DETACH DELETE c`
		params["video_id"] = videoID
	}
	_, err := sess.Run(ctx, cypher, params)
	return err
}

// ReplaceTags replaces a video's tags. Old TAGGED relationships are removed
// first; tag nodes are shared across videos and merged by name.
func (s *Store) ReplaceTags(ctx context.Context, videoID string, tags []string) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx,
			`MATCH (:Video {video_id: $video_id})-[r:TAGGED]->(:Tag) DELETE r`,
			map[string]any{"video_id": videoID}); err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if _, err := tx.Run(ctx,
				`MATCH (v:Video {video_id: $video_id})
				 MERGE (t:Tag {name: $name})
				 MERGE (v)-[:TAGGED]->(t)`,
				map[string]any{"video_id": videoID, "name": tag}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// TagCounts returns every tag with its video count, most used first.
func (s *Store) TagCounts(ctx context.Context) ([]TagCount, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		`MATCH (t:Tag)<-[:TAGGED]-(v:Video)
		 RETURN t.name AS name, count(v) AS c ORDER BY c DESC, name`, nil)
	if err != nil {
		return nil, err
	}

	var counts []TagCount
	for result.Next(ctx) {
		rec := result.Record()
		name, _ := rec.Get("name")
		c, _ := rec.Get("c")
		tc := TagCount{}
		if s, ok := name.(string); ok {
			tc.Tag = s
		}
		if n, ok := c.(int64); ok {
			tc.Count = n
		}
		counts = append(counts, tc)
	}
	return counts, nil
}

func collectVideos(ctx context.Context, result neo4j.ResultWithContext) ([]Video, error) {
	var videos []Video
	for result.Next(ctx) {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "v")
		if err != nil {
			return nil, err
		}
		videos = append(videos, videoFromProps(node.Props))
	}
	return videos, nil
}

func collectChunks(ctx context.Context, result neo4j.ResultWithContext) ([]Chunk, error) {
	var chunks []Chunk
	for result.Next(ctx) {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "c")
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunkFromProps(node.Props))
	}
	return chunks, nil
}

func videoToMap(v Video) map[string]any {
	m := map[string]any{
		"video_id":         v.VideoID,
		"url":              v.URL,
		"title":            v.Title,
		"description":      v.Description,
		"published_at":     v.PublishedAt.UTC().Format(time.RFC3339),
		"duration_seconds": v.DurationSeconds,
		"hebrew_date":      v.HebrewDate,
		"day_of_week":      v.DayOfWeek,
		"subject":          v.Subject,
	}
	if v.CivilDate != nil {
		m["civil_date"] = v.CivilDate.Format("2006-01-02")
	}
	return m
}

func videoFromProps(props map[string]any) Video {
	v := Video{
		VideoID:         strProp(props, "video_id"),
		URL:             strProp(props, "url"),
		Title:           strProp(props, "title"),
		Description:     strProp(props, "description"),
		DurationSeconds: int(intProp(props, "duration_seconds")),
		HebrewDate:      strProp(props, "hebrew_date"),
		DayOfWeek:       strProp(props, "day_of_week"),
		Subject:         strProp(props, "subject"),
	}
	if raw := strProp(props, "published_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			v.PublishedAt = t
		}
	}
	if raw := strProp(props, "civil_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			v.CivilDate = &t
		}
	}
	return v
}

func segmentFromProps(props map[string]any) Segment {
	return Segment{
		VideoID:  strProp(props, "video_id"),
		Index:    int(intProp(props, "idx")),
		Start:    floatProp(props, "start"),
		Duration: floatProp(props, "duration"),
		End:      floatProp(props, "end"),
		Text:     strProp(props, "text"),
	}
}

func chunkFromProps(props map[string]any) Chunk {
	return Chunk{
		VideoID:    strProp(props, "video_id"),
		FirstIndex: int(intProp(props, "first_idx")),
		LastIndex:  int(intProp(props, "last_idx")),
		Start:      floatProp(props, "start"),
		End:        floatProp(props, "end"),
		Text:       strProp(props, "text"),
	}
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func intProp(props map[string]any, key string) int64 {
	switch v := props[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func floatProp(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}
