package mysql

const findReviewSQL = `
SELECT id, source_review_id, product_id, source, raw
FROM reviews
WHERE source_review_id = ?`

const productExistsSQL = `
SELECT 1 FROM products WHERE product_id = ? LIMIT 1`

const findProcessedIDSQL = `
SELECT id FROM processed_reviews
WHERE org_review_id = ? AND is_processed = 1`

const getProcessedSQL = `
SELECT id, org_review_id, is_processed, en_review, ai_reply, is_approved,
       analysis, review_date, source, product_id, raw_review
FROM processed_reviews
WHERE org_review_id = ?`

const insertProcessedSQL = `
INSERT INTO processed_reviews
  (org_review_id, is_processed, en_review, ai_reply, is_approved,
   analysis, review_date, source, product_id, raw_review)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertReviewsPrefix = `
INSERT INTO reviews (source_review_id, product_id, source, raw) VALUES `

const insertReviewsOnDup = `
ON DUPLICATE KEY UPDATE raw = VALUES(raw)`
