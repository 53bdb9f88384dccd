package mysql

const insertReportSQL = `
INSERT INTO demand_reports
  (id, category, city, total_reviews, avg_rating, payload, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

// A venue that keeps failing keeps one row; the latest status wins.
const insertMissSQL = `
INSERT INTO fetch_misses (place_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const latestReportSQL = `
SELECT id, category, city, payload, created_at
FROM demand_reports
WHERE category = ? AND city = ?
ORDER BY created_at DESC, id DESC
LIMIT 1
`

const listReportsSQL = `
SELECT id, category, city, payload, created_at
FROM demand_reports
ORDER BY created_at DESC, id DESC
LIMIT ?
`

const getMissSQL = `
SELECT http_status, reason
FROM fetch_misses
WHERE place_id = ?
`
