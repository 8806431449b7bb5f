package graphqlapi

// Schema - GraphQL schema served by the API
// Every Query and Mutation field maps onto a method of Resolver with the same name
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	scalar Time

	enum Visibility {
		public
		private
	}

	enum PostError {
		NotAuthenticated
		NotAuthorized
	}

	type Post {
		id: ID!
		title: String!
		content: String!
		visibility: Visibility!
		authorId: ID!
		createdAt: Time!
		updatedAt: Time!
		comments: [Comment!]!
	}

	type Comment {
		id: ID!
		postId: ID!
		authorId: ID!
		content: String!
		createdAt: Time!
	}

	type User {
		id: ID!
		username: String!
		email: String!
		createdAt: Time!
	}

	type PostResponse {
		post: Post
		error: PostError
	}

	type CommentResponse {
		comment: Comment
		error: String
	}

	type AuthResponse {
		user: User
		token: String
		error: String
	}

	input CreatePostInput {
		title: String!
		content: String!
		visibility: Visibility
	}

	input UpdatePostInput {
		title: String
		content: String
		visibility: Visibility
	}

	input CreateCommentInput {
		content: String!
	}

	input RegisterInput {
		username: String!
		email: String!
		password: String!
	}

	input LoginInput {
		login: String!
		password: String!
	}

	type Query {
		findAllPosts: [Post!]!
		findOnePost(id: ID!): Post
	}

	type Mutation {
		createPost(input: CreatePostInput!): PostResponse!
		updatePost(postId: ID!, input: UpdatePostInput!): PostResponse!
		deletePost(postId: ID!): PostResponse!
		createComment(postId: ID!, input: CreateCommentInput!): CommentResponse!
		deleteComment(commentId: ID!): CommentResponse!
		register(input: RegisterInput!): AuthResponse!
		login(input: LoginInput!): AuthResponse!
	}
`
