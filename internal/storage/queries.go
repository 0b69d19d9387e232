package storage

const (
	// User queries
	CreateUserQuery = `
		INSERT INTO users (id, email, password_hash, firstname, lastname, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	GetUserByEmailQuery = `
		SELECT id, email, password_hash, firstname, lastname, phone, created_at
		FROM users
		WHERE email = $1
	`

	GetUserByIDQuery = `
		SELECT id, email, password_hash, firstname, lastname, phone, created_at
		FROM users
		WHERE id = $1
	`

	// Wallet queries
	CreateWalletQuery = `
		INSERT INTO wallets (user_id, currency_code, balance)
		VALUES ($1, $2, $3)
	`

	// Creates an empty wallet unless one exists already
	EnsureWalletQuery = `
		INSERT INTO wallets (user_id, currency_code, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id, currency_code) DO NOTHING
	`

	// Row lock held until the end of the transaction
	GetWalletForUpdateQuery = `
		SELECT user_id, currency_code, balance, updated_at
		FROM wallets
		WHERE user_id = $1 AND currency_code = $2
		FOR UPDATE
	`

	UpdateWalletBalanceQuery = `
		UPDATE wallets
		SET balance = $1, updated_at = NOW()
		WHERE user_id = $2 AND currency_code = $3
	`

	GetUserWalletsQuery = `
		SELECT currency_code, balance
		FROM wallets
		WHERE user_id = $1
		ORDER BY currency_code
	`

	// Rate queries
	GetLatestRateQuery = `
		SELECT code, effective_date, bid, ask
		FROM currency_rates
		WHERE code = $1
		ORDER BY effective_date DESC
		LIMIT 1
	`

	GetRatesRangeQuery = `
		SELECT code, effective_date, bid, ask
		FROM currency_rates
		WHERE code = $1
		  AND ($2::date IS NULL OR effective_date >= $2::date)
		  AND ($3::date IS NULL OR effective_date <= $3::date)
		ORDER BY effective_date ASC
	`

	GetAllLatestRatesQuery = `
		SELECT DISTINCT ON (code) code, effective_date, bid, ask
		FROM currency_rates
		ORDER BY code, effective_date DESC
	`

	// First writer wins for a given (code, effective_date)
	InsertRateQuery = `
		INSERT INTO currency_rates (code, effective_date, bid, ask)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code, effective_date) DO NOTHING
	`

	LatestRateDateQuery = `
		SELECT effective_date
		FROM currency_rates
		ORDER BY effective_date DESC
		LIMIT 1
	`

	// Drops every code that has no quote on the reference date
	DeleteRatesWithoutDateQuery = `
		DELETE FROM currency_rates cr
		WHERE NOT EXISTS (
			SELECT 1
			FROM currency_rates k
			WHERE k.code = cr.code AND k.effective_date = $1
		)
	`

	CurrencyExistsQuery = `
		SELECT EXISTS(
			SELECT 1
			FROM currency_rates
			WHERE code = $1
		)
	`

	// Transaction log queries
	CreateTransactionQuery = `
		INSERT INTO transactions (
			id, user_id, currency_code, amount, transaction_type, price,
			timestamp, final_pln_balance, final_currency_balance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	GetUserTransactionsQuery = `
		SELECT id, user_id, currency_code, amount, transaction_type, price,
		       timestamp, final_pln_balance, final_currency_balance
		FROM transactions
		WHERE user_id = $1
		ORDER BY seq
	`

	// Favorites queries
	GetUserFavoritesQuery = `
		SELECT currency_code
		FROM user_favorite_currencies
		WHERE user_id = $1
		ORDER BY currency_code
	`

	AddFavoriteQuery = `
		INSERT INTO user_favorite_currencies (user_id, currency_code)
		VALUES ($1, $2)
		ON CONFLICT (user_id, currency_code) DO NOTHING
	`

	RemoveFavoriteQuery = `
		DELETE FROM user_favorite_currencies
		WHERE user_id = $1 AND currency_code = $2
	`
)
