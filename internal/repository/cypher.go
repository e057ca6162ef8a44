package repository

const ensureSchemaCypher = `
CREATE CONSTRAINT waitlist_signup_email_unique IF NOT EXISTS
FOR (s:WaitlistSignup) REQUIRE s.email IS UNIQUE`

const createSignupCypher = `
CREATE (s:WaitlistSignup {
    id: randomUUID(),
    name: $name,
    email: $email,
    userType: $userType,
    city: $city,
    role: $role,
    ipAddress: $ipAddress,
    signupSource: $signupSource,
    emailSent: false,
    convertedToUser: false,
    createdAt: datetime()
})
RETURN s.id AS id, toString(s.createdAt) AS createdAt`

const countSignupsFromAddressCypher = `
MATCH (s:WaitlistSignup)
WHERE s.ipAddress = $ipAddress AND s.createdAt >= datetime($since)
RETURN count(s) AS total`

const signupEmailExistsCypher = `
MATCH (s:WaitlistSignup {email: $email})
RETURN count(s) AS total`

const createLeadCypher = `
CREATE (l:Lead {
    id: $id,
    kind: $kind,
    name: $name,
    email: $email,
    subject: $subject,
    message: $message,
    ipAddress: $ipAddress,
    createdAt: datetime()
})
RETURN l.id AS id`

const listUnconfirmedSignupsCypher = `
MATCH (s:WaitlistSignup {emailSent: false})
RETURN s.id AS id, s.name AS name, s.email AS email, s.userType AS userType
ORDER BY s.createdAt ASC
LIMIT $limit`

const markConfirmationSentCypher = `
MATCH (s:WaitlistSignup {id: $id})
SET s.emailSent = true
RETURN s.id AS id`
